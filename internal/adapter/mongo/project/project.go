package project

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongodb "github.com/alanyang/folio/internal/adapter/mongo"
	"github.com/alanyang/folio/internal/domain"
	domainproject "github.com/alanyang/folio/internal/domain/project"
	portproject "github.com/alanyang/folio/internal/port/project"
)

var _ portproject.Repository = (*Repository)(nil)

// document is the stored shape. _id holds the UUID in its string form.
type document struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	URL         string    `bson:"url"`
	Image       string    `bson:"image"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func toDocument(p domainproject.Project) document {
	return document{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		URL:         p.URL,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d document) toDomain() (domainproject.Project, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domainproject.Project{}, fmt.Errorf("decoding project id %q: %w", d.ID, err)
	}
	return domainproject.Project{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		URL:         d.URL,
		Image:       d.Image,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}, nil
}

type Repository struct {
	coll *mongo.Collection
}

func New(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(mongodb.ProjectsCollection)}
}

func (r *Repository) Create(ctx context.Context, p domainproject.Project) (domainproject.Project, error) {
	if _, err := r.coll.InsertOne(ctx, toDocument(p)); err != nil {
		return domainproject.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context) ([]domainproject.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding projects: %w", err)
	}

	projects := make([]domainproject.Project, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domainproject.Project, error) {
	var d document
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&d); err != nil {
		return domainproject.Project{}, notFound(id, "get project", err)
	}
	return d.toDomain()
}

func (r *Repository) Replace(ctx context.Context, id uuid.UUID, rep domainproject.Replacement) (domainproject.Project, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: rep.Name},
		{Key: "description", Value: rep.Description},
		{Key: "url", Value: rep.URL},
		{Key: "image", Value: rep.Image},
		{Key: "updatedAt", Value: rep.UpdatedAt},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d document
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id.String()}}, update, opts).Decode(&d)
	if err != nil {
		return domainproject.Project{}, notFound(id, "replace project", err)
	}
	return d.toDomain()
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (domainproject.Project, error) {
	var d document
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&d); err != nil {
		return domainproject.Project{}, notFound(id, "delete project", err)
	}
	return d.toDomain()
}

func notFound(id uuid.UUID, op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
