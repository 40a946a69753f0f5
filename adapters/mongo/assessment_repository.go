package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/serenica/server/domain/entities"
	"github.com/serenica/server/domain/repositories"
)

// ErrResultNotFound is returned when no assessment matches the given id.
var ErrResultNotFound = errors.New("assessment result not found")

type AssessmentRepository struct {
	collection *mongo.Collection
}

// NewAssessmentRepository creates a new MongoDB assessment repository
func NewAssessmentRepository(db *mongo.Database) repositories.AssessmentRepository {
	return &AssessmentRepository{
		collection: db.Collection("assessments"),
	}
}

// Create implements repositories.AssessmentRepository
func (r *AssessmentRepository) Create(ctx context.Context, result *entities.AssessmentResult) error {
	if result == nil {
		return errors.New("assessment result cannot be nil")
	}
	if result.ID == "" {
		result.ID = uuid.NewString()
	}

	if _, err := r.collection.InsertOne(ctx, result); err != nil {
		return fmt.Errorf("failed to create assessment result: %w", err)
	}
	return nil
}

// GetByID implements repositories.AssessmentRepository
func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*entities.AssessmentResult, error) {
	if id == "" {
		return nil, errors.New("assessment id cannot be empty")
	}

	var result entities.AssessmentResult
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get assessment %s: %w", id, err)
	}
	return &result, nil
}

// ListByOwner implements repositories.AssessmentRepository
func (r *AssessmentRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*entities.AssessmentResult, error) {
	if ownerID == "" {
		return nil, errors.New("owner id cannot be empty")
	}
	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments for owner %s: %w", ownerID, err)
	}
	defer cursor.Close(ctx)

	var results []*entities.AssessmentResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode assessments: %w", err)
	}
	return results, nil
}
