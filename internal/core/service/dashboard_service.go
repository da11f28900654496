package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/ports"
	"github.com/ecomrating/store-rating/internal/core/rating"
)

// RecentLimit is how many of the newest users, stores and ratings the
// dashboard shows.
const RecentLimit = 5

// buildTimeout bounds a shared rebuild, which outlives the request that
// started it.
const buildTimeout = 10 * time.Second

// DashboardService builds the admin overview. cache may be nil.
type DashboardService struct {
	users   ports.UserRepository
	stores  ports.StoreRepository
	ratings ports.RatingRepository
	cache   ports.DashboardCache
	group   singleflight.Group
	log     zerolog.Logger
	now     func() time.Time
}

func NewDashboardService(
	users ports.UserRepository,
	stores ports.StoreRepository,
	ratings ports.RatingRepository,
	cache ports.DashboardCache,
	log zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		users:   users,
		stores:  stores,
		ratings: ratings,
		cache:   cache,
		log:     log,
		now:     time.Now,
	}
}

// Summary returns a cached overview when one is fresh, otherwise builds and
// caches a new one. Cache failures are logged and otherwise ignored.
func (s *DashboardService) Summary(ctx context.Context, id *domain.Identity) (*ports.DashboardSummary, error) {
	if err := domain.Authorize(id, domain.OpViewDashboard); err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("dashboard cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	// Concurrent misses share one rebuild. It is detached from the caller
	// that started it, and each caller stops waiting when its own ctx ends.
	ch := s.group.DoChan("dashboard", func() (interface{}, error) {
		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), buildTimeout)
		defer cancel()

		summary, err := s.build(bctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(bctx, summary); err != nil {
				s.log.Warn().Err(err).Msg("dashboard cache write failed")
			}
		}
		return summary, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*ports.DashboardSummary), nil
	}
}

func (s *DashboardService) build(ctx context.Context) (*ports.DashboardSummary, error) {
	var (
		totals        ports.DashboardTotals
		recentUsers   []*domain.User
		recentStores  []*domain.Store
		recentRatings []*domain.Rating
		scores        map[string][]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals.Users, err = s.users.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		totals.Stores, err = s.stores.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		totals.Ratings, err = s.ratings.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		recentUsers, err = s.users.Recent(gctx, RecentLimit)
		return err
	})
	g.Go(func() (err error) {
		recentStores, err = s.stores.Recent(gctx, RecentLimit)
		return err
	})
	g.Go(func() (err error) {
		recentRatings, err = s.ratings.Recent(gctx, RecentLimit)
		return err
	})
	g.Go(func() (err error) {
		scores, err = s.ratings.ScoresByStore(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := make([]rating.Ranked, 0, len(scores))
	for storeID, ss := range scores {
		ranked = append(ranked, rating.Ranked{ID: storeID, Summary: rating.Aggregate(ss)})
	}
	// Map iteration order is random, so fix the tie order before ranking.
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].ID < ranked[j].ID })
	top := rating.RankTop(ranked, rating.TopRatedLimit)

	storeIDs := make([]string, 0, len(top)+len(recentRatings))
	for _, t := range top {
		storeIDs = append(storeIDs, t.ID)
	}
	userIDs := make([]string, 0, len(recentStores)+len(recentRatings))
	for _, st := range recentStores {
		userIDs = append(userIDs, st.OwnerID)
	}
	for _, r := range recentRatings {
		userIDs = append(userIDs, r.UserID)
		storeIDs = append(storeIDs, r.StoreID)
	}

	names, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	stores, err := s.stores.FindByIDs(ctx, storeIDs)
	if err != nil {
		return nil, err
	}

	summary := &ports.DashboardSummary{
		Totals:         totals,
		RecentUsers:    make([]ports.RecentUser, 0, len(recentUsers)),
		RecentStores:   make([]ports.RecentStore, 0, len(recentStores)),
		RecentRatings:  make([]ports.RecentRating, 0, len(recentRatings)),
		TopRatedStores: make([]ports.TopStore, 0, len(top)),
		GeneratedAt:    s.now().UTC(),
	}
	for _, u := range recentUsers {
		summary.RecentUsers = append(summary.RecentUsers, ports.RecentUser{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}
	for _, st := range recentStores {
		rs := ports.RecentStore{
			ID:        st.ID,
			Name:      st.Name,
			Email:     st.Email,
			Address:   st.Address,
			CreatedAt: st.CreatedAt,
		}
		if o, ok := names[st.OwnerID]; ok {
			rs.OwnerName = o.Name
		}
		summary.RecentStores = append(summary.RecentStores, rs)
	}
	for _, r := range recentRatings {
		rr := ports.RecentRating{ID: r.ID, Rating: r.Score, CreatedAt: r.CreatedAt}
		if u, ok := names[r.UserID]; ok {
			rr.UserName = u.Name
		}
		if st, ok := stores[r.StoreID]; ok {
			rr.StoreName = st.Name
		}
		summary.RecentRatings = append(summary.RecentRatings, rr)
	}
	for _, t := range top {
		ts := ports.TopStore{ID: t.ID, AverageRating: *t.Average, TotalRatings: t.Count}
		if st, ok := stores[t.ID]; ok {
			ts.Name = st.Name
		}
		summary.TopRatedStores = append(summary.TopRatedStores, ts)
	}
	return summary, nil
}
