package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/ports"
	"github.com/ecomrating/store-rating/internal/core/rating"
)

// RatingService records NORMAL_USER ratings.
type RatingService struct {
	ratings ports.RatingRepository
	stores  ports.StoreRepository
	log     zerolog.Logger
}

func NewRatingService(ratings ports.RatingRepository, stores ports.StoreRepository, log zerolog.Logger) *RatingService {
	return &RatingService{ratings: ratings, stores: stores, log: log}
}

// Submit stores the caller's score for storeID, replacing any earlier one.
func (s *RatingService) Submit(ctx context.Context, id *domain.Identity, storeID string, score int) (*ports.SubmitRatingResult, error) {
	if err := domain.Authorize(id, domain.OpSubmitRating); err != nil {
		return nil, err
	}
	if storeID == "" {
		return nil, domain.NewValidationError("store_id", "store ID and rating are required")
	}
	if err := rating.ValidateScore(score); err != nil {
		return nil, err
	}

	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		return nil, err
	}

	created, err := rating.Upsert(ctx, s.ratings, id.UserID, storeID, score)
	if err != nil {
		return nil, err
	}

	stored, err := s.ratings.Find(ctx, id.UserID, storeID)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", id.UserID).
		Str("store_id", storeID).
		Int("rating", score).
		Bool("created", created).
		Msg("rating submitted")

	return &ports.SubmitRatingResult{Rating: stored, Created: created}, nil
}

// Mine returns the caller's rating for storeID, or domain.ErrRatingNotFound.
func (s *RatingService) Mine(ctx context.Context, id *domain.Identity, storeID string) (*domain.Rating, error) {
	if err := domain.Authorize(id, domain.OpViewOwnRating); err != nil {
		return nil, err
	}
	return s.ratings.Find(ctx, id.UserID, storeID)
}
