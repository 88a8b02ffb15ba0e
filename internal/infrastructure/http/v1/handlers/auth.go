package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/activity"
	"stockroom/internal/domain/auth"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// AuthHandler serves authentication and user management endpoints.
type AuthHandler struct {
	*BaseHandler
	auth     *auth.Service
	activity *activity.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, authSvc *auth.Service, activitySvc *activity.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		auth:        authSvc,
		activity:    activitySvc,
	}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, user, err := h.auth.Login(ctx, auth.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, user.Username, "auth.login", nil)

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token.Token,
		TokenType: token.TokenType,
		ExpiresAt: token.ExpiresAt,
		User:      dto.FromUser(user),
	})
}

// Register handles POST /auth/register (admin only).
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.auth.Register(ctx, auth.RegisterRequest{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "user.register", map[string]any{
		"userId":   user.ID.String(),
		"username": user.Username,
	})

	c.JSON(http.StatusCreated, dto.FromUser(user))
}

// Me handles GET /auth/me - current authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := id.Parse(h.GetUserID(c))
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	user, err := h.auth.GetByID(ctx, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromUser(user))
}

// ListUsers handles GET /users (admin only).
func (h *AuthHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	filter := auth.UserFilter{
		Search: c.Query("search"),
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if active := c.Query("isActive"); active != "" {
		val := active == "true"
		filter.IsActive = &val
	}

	users, total, err := h.auth.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(users))
	for i := range users {
		items[i] = dto.FromUser(&users[i])
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// DeleteUser handles DELETE /users/:id (admin only).
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.auth.Delete(ctx, userID); err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "user.delete", map[string]any{
		"userId": userID.String(),
	})

	h.NoContent(c)
}
