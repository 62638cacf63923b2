package handler

import (
	"github.com/gin-gonic/gin"

	"foodgram-backend/internal/domains/user/model"
	"foodgram-backend/internal/domains/user/service"
	"foodgram-backend/internal/shared/middleware"
	"foodgram-backend/internal/shared/response"
	"foodgram-backend/internal/shared/utils"
)

// UserHandler xử lý HTTP requests cho users và auth token
type UserHandler struct {
	service  service.UserService
	pageSize int
}

func NewUserHandler(s service.UserService, pageSize int) *UserHandler {
	return &UserHandler{service: s, pageSize: pageSize}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Login POST /api/auth/token/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	token, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, token)
}

// Logout POST /api/auth/token/logout
func (h *UserHandler) Logout(c *gin.Context) {
	err := h.service.Logout(c.Request.Context(),
		middleware.GetActor(c),
		c.GetString(middleware.ContextKeyTokenID),
		c.GetTime(middleware.ContextKeyTokenExp),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ========================================
// PROFILE ENDPOINTS
// ========================================

// ListUsers GET /api/users?page=&limit=
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := utils.ParsePagination(c, h.pageSize)

	users, total, err := h.service.ListUsers(c.Request.Context(), middleware.GetActor(c), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.NewPage(users, total, page, limit))
}

// GetUser GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.Error(c, model.ErrUserNotFound)
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// Me GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// SetPassword POST /api/users/set_password
func (h *UserHandler) SetPassword(c *gin.Context) {
	var req model.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.service.SetPassword(c.Request.Context(), middleware.GetActor(c), &req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
