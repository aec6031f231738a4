package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/energy-platform/mesh/internal/core/domain"
)

const collectionCredentials = "credentials"

type CredentialRepository struct {
	col *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{col: db.Collection(collectionCredentials)}
}

type credentialDoc struct {
	ID           string `bson:"_id"`
	Username     string `bson:"username"`
	Email        string `bson:"email,omitempty"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`
	CreatedAt    int64  `bson:"created_at"`
}

// Create inserts cred. The unique username index turns a race between two
// registrations into ErrUsernameTaken.
func (r *CredentialRepository) Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	doc := credentialDoc{
		ID:           cred.ID.String(),
		Username:     cred.Username,
		Email:        cred.Email,
		PasswordHash: cred.PasswordHash,
		Role:         cred.Role.String(),
		CreatedAt:    cred.CreatedAt.Unix(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert credential: %w", err)
	}
	return doc.toDomain()
}

func (r *CredentialRepository) FindByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *CredentialRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Credential, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *CredentialRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count credentials: %w", err)
	}
	return n > 0, nil
}

// EnsureIndexes creates the unique username index.
func (r *CredentialRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *CredentialRepository) findOne(ctx context.Context, filter bson.M) (*domain.Credential, error) {
	var doc credentialDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return doc.toDomain()
}

func (d credentialDoc) toDomain() (*domain.Credential, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("credential %q: bad id: %w", d.ID, err)
	}
	role, ok := domain.ParseRole(d.Role)
	if !ok {
		return nil, fmt.Errorf("credential %q: %w", d.ID, domain.ErrInvalidRole)
	}
	return &domain.Credential{
		ID:           id,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         role,
		CreatedAt:    unixToTime(d.CreatedAt),
	}, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
