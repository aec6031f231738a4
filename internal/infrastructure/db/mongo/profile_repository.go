package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/energy-platform/mesh/internal/core/domain"
)

const collectionProfiles = "user_profiles"

type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(collectionProfiles)}
}

// profileDoc keeps a lower-cased copy of the email for the unique index.
type profileDoc struct {
	ID          string `bson:"_id"`
	FirstName   string `bson:"first_name"`
	LastName    string `bson:"last_name"`
	Email       string `bson:"email"`
	EmailKey    string `bson:"email_key"`
	PhoneNumber string `bson:"phone_number,omitempty"`
	Address     string `bson:"address,omitempty"`
	City        string `bson:"city,omitempty"`
	Country     string `bson:"country,omitempty"`
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *ProfileRepository) List(ctx context.Context) ([]*domain.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	var docs []profileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	out := make([]*domain.UserProfile, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc profileDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

func (r *ProfileRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, bson.M{"_id": id.String()})
}

// ExistsByEmail compares case-insensitively.
func (r *ProfileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email_key": emailKey(email)})
}

// Save upserts p by id. A clash on the email index is ErrEmailTaken.
func (r *ProfileRepository) Save(ctx context.Context, p *domain.UserProfile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := profileDoc{
		ID:          p.ID.String(),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		EmailKey:    emailKey(p.Email),
		PhoneNumber: p.PhoneNumber,
		Address:     p.Address,
		City:        p.City,
		Country:     p.Country,
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index.
func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *ProfileRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count profiles: %w", err)
	}
	return n > 0, nil
}

func (d profileDoc) toDomain() (*domain.UserProfile, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("profile %q: bad id: %w", d.ID, err)
	}
	return &domain.UserProfile{
		ID:          id,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		PhoneNumber: d.PhoneNumber,
		Address:     d.Address,
		City:        d.City,
		Country:     d.Country,
	}, nil
}
