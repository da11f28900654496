package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/ports"
)

const collectionStores = "stores"

type StoreRepository struct {
	col *mongo.Collection
}

func NewStoreRepository(db *mongo.Database) *StoreRepository {
	return &StoreRepository{col: db.Collection(collectionStores)}
}

type storeDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Address   string    `bson:"address"`
	OwnerID   string    `bson:"owner_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d storeDoc) toDomain() *domain.Store {
	return &domain.Store{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Address:   d.Address,
		OwnerID:   d.OwnerID,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// Create inserts a new store. A taken email maps to domain.ErrStoreEmailTaken.
func (r *StoreRepository) Create(ctx context.Context, s *domain.Store) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, storeDoc{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Address:   s.Address,
		OwnerID:   s.OwnerID,
		CreatedAt: s.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrStoreEmailTaken
		}
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

func (r *StoreRepository) FindByID(ctx context.Context, id string) (*domain.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d storeDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, fmt.Errorf("find store: %w", err)
	}
	return d.toDomain(), nil
}

func (r *StoreRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Store, error) {
	out := make(map[string]*domain.Store, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	stores, err := r.find(ctx, bson.M{"_id": inIDs(ids)}, options.Find())
	if err != nil {
		return nil, err
	}
	for _, s := range stores {
		out[s.ID] = s
	}
	return out, nil
}

func (r *StoreRepository) List(ctx context.Context, f ports.StoreFilter) ([]*domain.Store, error) {
	return r.find(ctx, storeFilter(f), options.Find().SetSort(sortBy(storeSortField(f.SortBy), f.SortOrder)))
}

func storeFilter(f ports.StoreFilter) bson.M {
	filter := bson.M{}
	if f.Name != "" {
		filter["name"] = containsFold(f.Name)
	}
	if f.Address != "" {
		filter["address"] = containsFold(f.Address)
	}
	if len(f.OwnerIDs) > 0 {
		filter["owner_id"] = inIDs(f.OwnerIDs)
	}
	return filter
}

func storeSortField(f ports.StoreSortField) string {
	switch f {
	case ports.StoreSortEmail, ports.StoreSortAddress, ports.StoreSortCreatedAt:
		return string(f)
	default:
		return string(ports.StoreSortName)
	}
}

func (r *StoreRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.D{})
}

func (r *StoreRepository) Recent(ctx context.Context, limit int) ([]*domain.Store, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetLimit(int64(limit)))
}

func (r *StoreRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find stores: %w", err)
	}
	var docs []storeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode stores: %w", err)
	}

	stores := make([]*domain.Store, len(docs))
	for i, d := range docs {
		stores[i] = d.toDomain()
	}
	return stores, nil
}

// EnsureIndexes creates necessary indexes on the stores collection.
func (r *StoreRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
