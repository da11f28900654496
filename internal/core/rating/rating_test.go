package rating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomrating/store-rating/internal/core/domain"
)

func TestAggregate(t *testing.T) {
	empty := Aggregate(nil)
	assert.Nil(t, empty.Average)
	assert.Equal(t, 0, empty.Count)

	two := Aggregate([]int{4, 5})
	require.NotNil(t, two.Average)
	assert.Equal(t, 4.5, *two.Average)
	assert.Equal(t, 2, two.Count)

	ones := Aggregate([]int{1, 1, 1})
	require.NotNil(t, ones.Average)
	assert.Equal(t, 1.0, *ones.Average)
	assert.Equal(t, 3, ones.Count)
}

func TestAggregate_RoundsToTwoDecimals(t *testing.T) {
	thirds := Aggregate([]int{4, 4, 5})
	require.NotNil(t, thirds.Average)
	assert.Equal(t, 4.33, *thirds.Average)

	sixths := Aggregate([]int{5, 5, 4})
	assert.Equal(t, 4.67, *sixths.Average)

	eighths := Aggregate([]int{1, 1, 1, 1, 1, 1, 1, 2})
	assert.Equal(t, 1.13, *eighths.Average, "1.125 rounds half away from zero")
}

func ranked(id string, avg float64, count int) Ranked {
	return Ranked{ID: id, Summary: Summary{Average: &avg, Count: count}}
}

func ids(rs []Ranked) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestRankTop_AverageThenCount(t *testing.T) {
	in := []Ranked{
		ranked("A", 4.5, 10),
		ranked("B", 4.5, 3),
		ranked("C", 4.9, 1),
	}
	assert.Equal(t, []string{"C", "A"}, ids(RankTop(in, 2)))
}

func TestRankTop_SkipsUnratedAndKeepsInputOrderOnTies(t *testing.T) {
	in := []Ranked{
		{ID: "empty"},
		ranked("X", 3, 2),
		ranked("Y", 3, 2),
		ranked("Z", 5, 1),
	}
	assert.Equal(t, []string{"Z", "X", "Y"}, ids(RankTop(in, TopRatedLimit)))
	assert.Empty(t, RankTop([]Ranked{{ID: "empty"}}, 3))
	assert.Len(t, RankTop(in, 10), 3)
}

func TestRankTop_DoesNotReorderInput(t *testing.T) {
	in := []Ranked{ranked("low", 1, 1), ranked("high", 5, 1)}
	_ = RankTop(in, 1)
	assert.Equal(t, []string{"low", "high"}, ids(in))
}

// memoryStore keys ratings by rater and store.
type memoryStore struct {
	records map[[2]string]int
	calls   int
}

func (m *memoryStore) UpsertRating(_ context.Context, r *domain.Rating) (bool, error) {
	m.calls++
	if m.records == nil {
		m.records = make(map[[2]string]int)
	}
	key := [2]string{r.UserID, r.StoreID}
	_, existed := m.records[key]
	m.records[key] = r.Score
	return !existed, nil
}

func TestUpsert_ReplacesExisting(t *testing.T) {
	store := &memoryStore{}
	ctx := context.Background()

	created, err := Upsert(ctx, store, "u1", "s1", 3)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = Upsert(ctx, store, "u1", "s1", 5)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Len(t, store.records, 1)
	assert.Equal(t, 5, store.records[[2]string{"u1", "s1"}])
}

func TestUpsert_RejectsOutOfRange(t *testing.T) {
	store := &memoryStore{}

	for _, score := range []int{0, 6, -1} {
		_, err := Upsert(context.Background(), store, "u1", "s1", score)
		assert.ErrorIs(t, err, domain.ErrValidation, "score %d", score)
	}
	assert.Zero(t, store.calls, "nothing may be written on invalid input")
}
