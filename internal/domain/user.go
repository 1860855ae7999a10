package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleCoach  Role = "coach"
	RoleClient Role = "client"
)

// User represents an account in the system (coach, client or admin).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"` // Unique, stored lowercase
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role" json:"role"`

	ProfilePicture string `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`

	// --- Coach-specific ---
	Credentials    string   `bson:"credentials,omitempty" json:"credentials,omitempty"`
	Bio            string   `bson:"bio,omitempty" json:"bio,omitempty"`
	Specialization []string `bson:"specialization,omitempty" json:"specialization,omitempty"`

	// --- Client-specific ---
	Age          *int     `bson:"age,omitempty" json:"age,omitempty"`
	Gender       string   `bson:"gender,omitempty" json:"gender,omitempty"`
	FitnessLevel string   `bson:"fitnessLevel,omitempty" json:"fitnessLevel,omitempty"` // beginner / intermediate / advanced
	Goals        []string `bson:"goals,omitempty" json:"goals,omitempty"`

	IsActive  bool      `bson:"isActive" json:"isActive"`
	IsDeleted bool      `bson:"isDeleted" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanBeAssigned reports whether this user is a valid assignment target:
// an active, non-deleted client account.
func (u *User) CanBeAssigned() bool {
	return u.IsClient() && u.IsActive && !u.IsDeleted
}
