package repositories

import (
	"context"

	"github.com/serenica/server/domain/entities"
)

// SessionStore owns the lifecycle of in-memory screening sessions.
type SessionStore interface {
	// Create returns a fresh session for the owner with a collision-free id.
	Create(ownerID string) (*entities.Session, error)
	// Get returns the session, or false when it does not exist.
	Get(id string) (*entities.Session, bool)
	// Delete removes the session. Deleting an absent session is a no-op.
	Delete(id string)
}

// AssessmentRepository persists finished assessment results.
type AssessmentRepository interface {
	Create(ctx context.Context, result *entities.AssessmentResult) error
	GetByID(ctx context.Context, id string) (*entities.AssessmentResult, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*entities.AssessmentResult, error)
}
