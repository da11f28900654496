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

	"github.com/ecomrating/store-rating/internal/core/domain"
)

const collectionRatings = "ratings"

// RatingRepository stores at most one rating per (user_id, store_id); a
// unique compound index enforces it.
type RatingRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewRatingRepository(db *mongo.Database) *RatingRepository {
	return &RatingRepository{col: db.Collection(collectionRatings), now: time.Now}
}

type ratingDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	StoreID   string    `bson:"store_id"`
	Score     int       `bson:"rating"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d ratingDoc) toDomain() *domain.Rating {
	return &domain.Rating{
		ID:        d.ID,
		UserID:    d.UserID,
		StoreID:   d.StoreID,
		Score:     d.Score,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// UpsertRating writes the score in a single upsert. Two concurrent first
// submissions may both try the insert; the loser hits the unique index and
// is retried once, which then takes the update path.
func (r *RatingRepository) UpsertRating(ctx context.Context, rt *domain.Rating) (bool, error) {
	created, err := r.upsert(ctx, rt)
	if mongo.IsDuplicateKeyError(err) {
		created, err = r.upsert(ctx, rt)
	}
	if err != nil {
		return false, fmt.Errorf("upsert rating: %w", err)
	}
	return created, nil
}

func (r *RatingRepository) upsert(ctx context.Context, rt *domain.Rating) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := r.now().UTC()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": rt.UserID, "store_id": rt.StoreID},
		bson.M{
			"$set": bson.M{"rating": rt.Score, "updated_at": now},
			"$setOnInsert": bson.M{
				"_id":        uuid.NewString(),
				"created_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *RatingRepository) Find(ctx context.Context, userID, storeID string) (*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d ratingDoc
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID, "store_id": storeID}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRatingNotFound
		}
		return nil, fmt.Errorf("find rating: %w", err)
	}
	return d.toDomain(), nil
}

func (r *RatingRepository) FindByUser(ctx context.Context, userID string, storeIDs []string) (map[string]*domain.Rating, error) {
	filter := bson.M{"user_id": userID}
	if storeIDs != nil {
		filter["store_id"] = inIDs(storeIDs)
	}

	ratings, err := r.find(ctx, filter, options.Find())
	if err != nil {
		return nil, err
	}
	out := make(map[string]*domain.Rating, len(ratings))
	for _, rt := range ratings {
		out[rt.StoreID] = rt
	}
	return out, nil
}

func (r *RatingRepository) ListByStore(ctx context.Context, storeID string) ([]*domain.Rating, error) {
	return r.find(ctx, bson.M{"store_id": storeID}, options.Find().SetSort(newestFirst))
}

// ScoresByStore groups scores server-side. Stores without ratings are absent
// from the result.
func (r *RatingRepository) ScoresByStore(ctx context.Context, storeIDs []string) (map[string][]int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{}
	if storeIDs != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"store_id": inIDs(storeIDs)}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":    "$store_id",
		"scores": bson.M{"$push": "$rating"},
	}}})

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}

	var groups []struct {
		StoreID string `bson:"_id"`
		Scores  []int  `bson:"scores"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("decode rating groups: %w", err)
	}

	out := make(map[string][]int, len(groups))
	for _, g := range groups {
		out[g.StoreID] = g.Scores
	}
	return out, nil
}

func (r *RatingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.D{})
}

func (r *RatingRepository) Recent(ctx context.Context, limit int) ([]*domain.Rating, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetLimit(int64(limit)))
}

func (r *RatingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find ratings: %w", err)
	}
	var docs []ratingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode ratings: %w", err)
	}

	ratings := make([]*domain.Rating, len(docs))
	for i, d := range docs {
		ratings[i] = d.toDomain()
	}
	return ratings, nil
}

// EnsureIndexes creates necessary indexes on the ratings collection.
func (r *RatingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "store_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "store_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
