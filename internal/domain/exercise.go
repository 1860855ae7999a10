package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaType for catalog media attachments
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// MediaFile is a reference to a demo image/video stored in object storage.
type MediaFile struct {
	FileType  MediaType `bson:"fileType" json:"fileType"`
	FileName  string    `bson:"fileName,omitempty" json:"fileName,omitempty"`
	FilePath  string    `bson:"filePath,omitempty" json:"filePath,omitempty"` // Object key in the bucket
	Thumbnail string    `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
}

// ExerciseInstructions holds how-to text plus optional media links.
type ExerciseInstructions struct {
	Text     string `bson:"text" json:"text"`
	ImageURL string `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	VideoURL string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
}

// Exercise is a single catalog entry. Assignments snapshot the numeric
// prescription (sets/reps/weight) separately, so editing the catalog never
// changes what a client was already prescribed; descriptive fields here are
// looked up live on read paths.
type Exercise struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	Description  string               `bson:"description,omitempty" json:"description,omitempty"`
	Category     string               `bson:"category,omitempty" json:"category,omitempty"` // e.g. "strength", "cardio"
	Instructions ExerciseInstructions `bson:"instructions" json:"instructions"`
	MediaFiles   []MediaFile          `bson:"mediaFiles,omitempty" json:"mediaFiles,omitempty"`
	MuscleGroups []string             `bson:"muscleGroups" json:"muscleGroups"`
	Equipment    string               `bson:"equipment,omitempty" json:"equipment,omitempty"`
	IsActive     bool                 `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}
