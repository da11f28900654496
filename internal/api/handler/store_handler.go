package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomrating/store-rating/internal/api/metrics"
	"github.com/ecomrating/store-rating/internal/api/middleware"
	"github.com/ecomrating/store-rating/internal/core/ports"
)

// StoreHandler serves the store listing and store-owner endpoints.
type StoreHandler struct {
	service ports.StoreService
}

func NewStoreHandler(service ports.StoreService) *StoreHandler {
	return &StoreHandler{service: service}
}

// List handles GET /api/stores. Authentication is optional; a signed-in
// NORMAL_USER also receives my_rating.
//
// @Summary      List stores
// @Tags         stores
// @Produce      json
// @Param        name        query     string  false  "Name contains"
// @Param        address     query     string  false  "Address contains"
// @Param        sort_by     query     string  false  "Sort field"  Enums(name, email, address, created_at)
// @Param        sort_order  query     string  false  "Sort order"  Enums(asc, desc)
// @Success      200         {array}   storeResponse
// @Failure      400         {object}  errorResponse
// @Router       /api/stores [get]
func (h *StoreHandler) List(c echo.Context) error {
	var q storeListQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	stores, err := h.service.List(c.Request().Context(), middleware.IdentityFrom(c), ports.StoreFilter{
		Name:      q.Name,
		Address:   q.Address,
		SortBy:    ports.StoreSortField(q.SortBy),
		SortOrder: ports.SortOrder(q.SortOrder),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStoreResponses(stores))
}

// Create handles POST /api/stores.
//
// @Summary      Create a store
// @Tags         stores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createStoreRequest  true  "Store details"
// @Success      201   {object}  createStoreResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/stores [post]
func (h *StoreHandler) Create(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req createStoreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	store, err := h.service.Create(c.Request().Context(), id, ports.CreateStoreInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		OwnerID: req.OwnerID,
	})
	if err != nil {
		return err
	}

	metrics.StoresCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, createStoreResponse{
		Message: "Store created successfully",
		Store:   toStoreResponse(*store),
	})
}

// Mine handles GET /api/stores/mine.
//
// @Summary      Stores owned by the caller
// @Tags         stores
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   storeResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/stores/mine [get]
func (h *StoreHandler) Mine(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}

	stores, err := h.service.ListOwned(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStoreResponses(stores))
}

// Ratings handles GET /api/stores/:id/ratings.
//
// @Summary      Ratings of an owned store
// @Tags         stores
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Store ID"
// @Success      200  {object}  storeRatingsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/stores/{id}/ratings [get]
func (h *StoreHandler) Ratings(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}

	view, err := h.service.Ratings(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStoreRatingsResponse(view))
}
