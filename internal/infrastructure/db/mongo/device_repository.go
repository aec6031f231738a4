package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/energy-platform/mesh/internal/core/domain"
)

const collectionDevices = "devices"

type DeviceRepository struct {
	col *mongo.Collection
}

func NewDeviceRepository(db *mongo.Database) *DeviceRepository {
	return &DeviceRepository{col: db.Collection(collectionDevices)}
}

type deviceDoc struct {
	ID                 string  `bson:"_id"`
	Name               string  `bson:"name"`
	Description        string  `bson:"description,omitempty"`
	MaximumConsumption float64 `bson:"maximum_consumption"`
	PowerConsumption   float64 `bson:"power_consumption"`
	OwnerID            *string `bson:"owner_id"`
}

func (r *DeviceRepository) List(ctx context.Context) ([]*domain.Device, error) {
	return r.find(ctx, bson.M{})
}

func (r *DeviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc deviceDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

func (r *DeviceRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Device, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID.String()})
}

// FindUnassigned matches a null or missing owner_id.
func (r *DeviceRepository) FindUnassigned(ctx context.Context) ([]*domain.Device, error) {
	return r.find(ctx, bson.M{"owner_id": nil})
}

// Save upserts d by id.
func (r *DeviceRepository) Save(ctx context.Context, d *domain.Device) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := deviceDoc{
		ID:                 d.ID.String(),
		Name:               d.Name,
		Description:        d.Description,
		MaximumConsumption: d.MaximumConsumption,
		PowerConsumption:   d.PowerConsumption,
	}
	if d.OwnerID != nil {
		owner := d.OwnerID.String()
		doc.OwnerID = &owner
	}

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save device: %w", err)
	}
	return nil
}

func (r *DeviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDeviceNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the devices collection.
func (r *DeviceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "owner_id", Value: 1}}})
	return err
}

func (r *DeviceRepository) find(ctx context.Context, filter bson.M) ([]*domain.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find devices: %w", err)
	}
	var docs []deviceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode devices: %w", err)
	}

	out := make([]*domain.Device, 0, len(docs))
	for _, doc := range docs {
		d, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (d deviceDoc) toDomain() (*domain.Device, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("device %q: bad id: %w", d.ID, err)
	}
	dev := &domain.Device{
		ID:                 id,
		Name:               d.Name,
		Description:        d.Description,
		MaximumConsumption: d.MaximumConsumption,
		PowerConsumption:   d.PowerConsumption,
	}
	if d.OwnerID != nil {
		owner, err := uuid.Parse(*d.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("device %q: bad owner: %w", d.ID, err)
		}
		dev.OwnerID = &owner
	}
	return dev, nil
}
