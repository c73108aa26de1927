package register

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	mongodb "github.com/alanyang/folio/internal/adapter/mongo"
	domainregister "github.com/alanyang/folio/internal/domain/register"
	portregister "github.com/alanyang/folio/internal/port/register"
)

var _ portregister.Repository = (*Repository)(nil)

type document struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
}

type Repository struct {
	coll *mongo.Collection
}

func New(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(mongodb.RegistersCollection)}
}

func (r *Repository) List(ctx context.Context) ([]domainregister.Register, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("listing registers: %w", err)
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding registers: %w", err)
	}

	users := make([]domainregister.Register, 0, len(docs))
	for _, d := range docs {
		users = append(users, domainregister.Register{
			ID:       d.ID.Hex(),
			Name:     d.Name,
			Email:    d.Email,
			Password: d.Password,
		})
	}
	return users, nil
}
