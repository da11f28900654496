// Package rating collapses per-user scores into averages, ranks stores by
// those averages, and owns the one-rating-per-user-per-store rule.
package rating

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ecomrating/store-rating/internal/core/domain"
)

// TopRatedLimit is the size of the dashboard's top-rated list.
const TopRatedLimit = 3

// Summary is the derived view of a store's ratings. Average is nil when
// there are no ratings.
type Summary struct {
	Average *float64 `json:"average_rating"`
	Count   int      `json:"total_ratings"`
}

// Aggregate averages scores, rounded half away from zero to two decimals.
func Aggregate(scores []int) Summary {
	if len(scores) == 0 {
		return Summary{}
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	avg := round2(float64(sum) / float64(len(scores)))
	return Summary{Average: &avg, Count: len(scores)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Ranked pairs an entity id with its summary.
type Ranked struct {
	ID string
	Summary
}

// RankTop drops unrated entries, orders the rest by average then count (both
// descending) and returns at most k of them. Fully tied entries keep their
// input order.
func RankTop(entries []Ranked, k int) []Ranked {
	rated := make([]Ranked, 0, len(entries))
	for _, e := range entries {
		if e.Count > 0 && e.Average != nil {
			rated = append(rated, e)
		}
	}

	sort.SliceStable(rated, func(i, j int) bool {
		ai, aj := *rated[i].Average, *rated[j].Average
		if ai != aj {
			return ai > aj
		}
		return rated[i].Count > rated[j].Count
	})

	if k >= 0 && len(rated) > k {
		rated = rated[:k]
	}
	return rated
}

// ValidateScore enforces the 1..5 integer range.
func ValidateScore(score int) error {
	if score < domain.MinScore || score > domain.MaxScore {
		return domain.NewValidationError("rating",
			fmt.Sprintf("rating must be an integer between %d and %d", domain.MinScore, domain.MaxScore))
	}
	return nil
}

// Upserter persists a rating keyed on (UserID, StoreID), replacing the score
// of an existing record. It reports whether a new record was inserted.
type Upserter interface {
	UpsertRating(ctx context.Context, r *domain.Rating) (created bool, err error)
}

// Upsert validates score and records it as raterID's rating of storeID. A
// second submission for the same pair replaces the first.
func Upsert(ctx context.Context, store Upserter, raterID, storeID string, score int) (bool, error) {
	if err := ValidateScore(score); err != nil {
		return false, err
	}
	if raterID == "" || storeID == "" {
		return false, domain.NewValidationError("store_id", "store ID and rating are required")
	}
	return store.UpsertRating(ctx, &domain.Rating{
		UserID:  raterID,
		StoreID: storeID,
		Score:   score,
	})
}
