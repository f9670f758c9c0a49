// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project status values: pending → in-progress → completed.
const (
	ProjectStatusPending    = "pending"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusCompleted  = "completed"
)

// ProjectDeadline is how long a contractor has to finish a project.
const ProjectDeadline = 30 * 24 * time.Hour

// Project is a repair effort created from exactly one assigned Issue.
type Project struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category" json:"category"`
	Village     string             `bson:"village" json:"village"`
	Description string             `bson:"description" json:"description"`

	SourceIssueID primitive.ObjectID `bson:"source_issue_id" json:"source_issue_id"`

	// AssignedContractorName is a snapshot taken at assignment time.
	AssignedContractorID   primitive.ObjectID `bson:"assigned_contractor_id" json:"assigned_contractor_id"`
	AssignedContractorName string             `bson:"assigned_contractor_name" json:"assigned_contractor_name"`

	Status   string `bson:"status" json:"status"`
	Progress int    `bson:"progress" json:"progress"` // 0..100, never decreases

	Deadline    time.Time  `bson:"deadline" json:"deadline"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}
