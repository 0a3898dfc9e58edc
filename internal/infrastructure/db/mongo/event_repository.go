package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/auvet/auth-service/internal/core/domain"
)

const eventsCollection = "auth_events"

// MongoAuthEventRepository stores the authentication audit trail.
type MongoAuthEventRepository struct {
	coll *mongo.Collection
}

func NewAuthEventRepository(db *mongo.Database) *MongoAuthEventRepository {
	return &MongoAuthEventRepository{coll: db.Collection(eventsCollection)}
}

type authEventDoc struct {
	CPF       string    `bson:"cpf"`
	Action    string    `bson:"action"`
	Success   bool      `bson:"success"`
	Detail    string    `bson:"detail,omitempty"`
	Timestamp time.Time `bson:"timestamp"`
}

func (r *MongoAuthEventRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	_, err := r.coll.InsertOne(ctx, authEventDoc{
		CPF:       event.CPF,
		Action:    event.Action,
		Success:   event.Success,
		Detail:    event.Detail,
		Timestamp: event.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
