package handler

import (
	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/ports"
)

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserSummaryResponse(s ports.UserSummary) userSummaryResponse {
	out := userSummaryResponse{userResponse: *toUserResponse(s.User)}
	if s.Rating != nil {
		count := s.Rating.Count
		out.AverageRating = s.Rating.Average
		out.TotalRatings = &count
	}
	return out
}

func toStoreResponse(s ports.StoreSummary) storeResponse {
	return storeResponse{
		ID:            s.Store.ID,
		Name:          s.Store.Name,
		Email:         s.Store.Email,
		Address:       s.Store.Address,
		OwnerID:       s.Store.OwnerID,
		OwnerName:     s.OwnerName,
		OwnerEmail:    s.OwnerEmail,
		AverageRating: s.Rating.Average,
		TotalRatings:  s.Rating.Count,
		MyRating:      s.MyRating,
		CreatedAt:     s.Store.CreatedAt,
	}
}

func toStoreResponses(in []ports.StoreSummary) []storeResponse {
	out := make([]storeResponse, len(in))
	for i, s := range in {
		out[i] = toStoreResponse(s)
	}
	return out
}

func toRatingResponse(r *domain.Rating) ratingResponse {
	return ratingResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		StoreID:   r.StoreID,
		Rating:    r.Score,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toStoreRatingsResponse(v *ports.StoreRatings) storeRatingsResponse {
	out := storeRatingsResponse{
		Store:         toStoreResponse(ports.StoreSummary{Store: v.Store, Rating: v.Summary}),
		AverageRating: v.Summary.Average,
		TotalRatings:  v.Summary.Count,
		Ratings:       make([]storeRatingResponse, len(v.Ratings)),
	}
	for i, e := range v.Ratings {
		out.Ratings[i] = storeRatingResponse{
			ID:     e.Rating.ID,
			Rating: e.Rating.Score,
			User: raterResponse{
				Name:    e.RaterName,
				Email:   e.RaterEmail,
				Address: e.RaterAddress,
			},
			CreatedAt: e.Rating.CreatedAt,
			UpdatedAt: e.Rating.UpdatedAt,
		}
	}
	return out
}
