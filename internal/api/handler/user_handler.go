package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/ports"
)

// UserHandler serves the admin user-management endpoints.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        name        query     string  false  "Name contains"
// @Param        email       query     string  false  "Email contains"
// @Param        address     query     string  false  "Address contains"
// @Param        role        query     string  false  "Exact role"  Enums(SYSTEM_ADMIN, STORE_OWNER, NORMAL_USER)
// @Param        sort_by     query     string  false  "Sort field"  Enums(name, email, address, role, created_at)
// @Param        sort_order  query     string  false  "Sort order"  Enums(asc, desc)
// @Success      200         {array}   userSummaryResponse
// @Failure      400         {object}  errorResponse
// @Failure      401         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var q userListQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	filter := ports.UserFilter{
		Name:      q.Name,
		Email:     q.Email,
		Address:   q.Address,
		SortBy:    ports.UserSortField(q.SortBy),
		SortOrder: ports.SortOrder(q.SortOrder),
	}
	if q.Role != "" {
		role, err := domain.ParseRole(q.Role)
		if err != nil {
			return domain.NewValidationError("role", "invalid role")
		}
		filter.Role = role
	}

	users, err := h.service.List(c.Request().Context(), id, filter)
	if err != nil {
		return err
	}

	out := make([]userSummaryResponse, len(users))
	for i, u := range users {
		out[i] = toUserSummaryResponse(u)
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/users.
//
// @Summary      Create a user with any role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), id, ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{
		Message: "User created successfully",
		User:    toUserResponse(user),
	})
}

// Update handles PATCH /api/users/:id.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), id, c.Param("id"), ports.UpdateUserInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Role:    req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{
		Message: "User updated successfully",
		User:    toUserResponse(user),
	})
}
