// internal/domain/models/contractor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contractor status values.
const (
	ContractorStatusActive   = "active"
	ContractorStatusInactive = "inactive"
)

// Contractor is a registered firm or person that can take on projects.
type Contractor struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"` // unique

	// SECURITY: stored and compared in cleartext. Not fit for a real
	// deployment; a production build must hash and salt this value.
	Password string `bson:"password" json:"-"`

	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	Phone          string    `bson:"phone" json:"phone"`
	Specialization string    `bson:"specialization" json:"specialization"`
	Status         string    `bson:"status" json:"status"`
	RegisteredAt   time.Time `bson:"registered_at" json:"registered_at"`
}
