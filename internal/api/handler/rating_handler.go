package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomrating/store-rating/internal/api/metrics"
	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/ports"
)

// RatingHandler serves the NORMAL_USER rating endpoints.
type RatingHandler struct {
	service ports.RatingService
}

func NewRatingHandler(service ports.RatingService) *RatingHandler {
	return &RatingHandler{service: service}
}

// Submit handles POST /api/ratings. A repeat submission replaces the
// caller's earlier score.
//
// @Summary      Submit or update a rating
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitRatingRequest  true  "Store and score (1-5)"
// @Success      200   {object}  submitRatingResponse  "rating updated"
// @Success      201   {object}  submitRatingResponse  "rating created"
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/ratings [post]
func (h *RatingHandler) Submit(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req submitRatingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Submit(c.Request().Context(), id, req.StoreID, req.Rating)
	if err != nil {
		return err
	}

	if res.Created {
		metrics.RatingsSubmittedTotal.WithLabelValues("created").Inc()
		return c.JSON(http.StatusCreated, submitRatingResponse{
			Message: "Rating submitted successfully",
			Rating:  toRatingResponse(res.Rating),
		})
	}
	metrics.RatingsSubmittedTotal.WithLabelValues("updated").Inc()
	return c.JSON(http.StatusOK, submitRatingResponse{
		Message: "Rating updated successfully",
		Rating:  toRatingResponse(res.Rating),
	})
}

// Mine handles GET /api/ratings/:storeId.
//
// @Summary      The caller's rating of a store
// @Tags         ratings
// @Produce      json
// @Security     BearerAuth
// @Param        storeId  path      string  true  "Store ID"
// @Success      200      {object}  myRatingResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Router       /api/ratings/{storeId} [get]
func (h *RatingHandler) Mine(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}

	r, err := h.service.Mine(c.Request().Context(), id, c.Param("storeId"))
	if errors.Is(err, domain.ErrNotFound) {
		return c.JSON(http.StatusOK, myRatingResponse{})
	}
	if err != nil {
		return err
	}

	resp := toRatingResponse(r)
	return c.JSON(http.StatusOK, myRatingResponse{Rating: &resp})
}
