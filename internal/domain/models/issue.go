// internal/domain/models/issue.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Issue status values. An issue only moves forward:
// pending → assigned → resolved.
const (
	IssueStatusPending  = "pending"
	IssueStatusAssigned = "assigned"
	IssueStatusResolved = "resolved"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Analysis records how an issue was classified.
type Analysis struct {
	KeyPhrases      []string `bson:"key_phrases" json:"key_phrases"`
	LocationHint    string   `bson:"location_hint,omitempty" json:"location_hint,omitempty"`
	Confidence      float64  `bson:"confidence" json:"confidence"`
	SentimentSource string   `bson:"sentiment_source" json:"sentiment_source"` // remote | lexicon
	ImageSeverity   *float64 `bson:"image_severity,omitempty" json:"image_severity,omitempty"`
}

// Issue is a reported civic problem.
//
// Everything except Status and AssignedProjectID is fixed at creation.
// AssignedProjectID is set at most once, together with the Project that
// points back at this issue.
type Issue struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Text         string             `bson:"text" json:"text"`
	LocationName string             `bson:"location_name,omitempty" json:"location_name,omitempty"`
	Category     string             `bson:"category" json:"category"`
	Sentiment    string             `bson:"sentiment" json:"sentiment"`
	Urgency      int                `bson:"urgency" json:"urgency"` // 0..10
	Coordinates  Coordinates        `bson:"coordinates" json:"coordinates"`
	PhotoRef     string             `bson:"photo_ref,omitempty" json:"photo_ref,omitempty"`
	Analysis     Analysis           `bson:"analysis" json:"analysis"`

	Status            string              `bson:"status" json:"status"`
	AssignedProjectID *primitive.ObjectID `bson:"assigned_project_id,omitempty" json:"assigned_project_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"timestamp"`
}
