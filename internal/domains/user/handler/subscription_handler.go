package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram-backend/internal/domains/user/model"
	"foodgram-backend/internal/domains/user/service"
	"foodgram-backend/internal/shared/middleware"
	"foodgram-backend/internal/shared/response"
	"foodgram-backend/internal/shared/utils"
)

type SubscriptionHandler struct {
	service  service.SubscriptionService
	pageSize int
}

func NewSubscriptionHandler(s service.SubscriptionService, pageSize int) *SubscriptionHandler {
	return &SubscriptionHandler{service: s, pageSize: pageSize}
}

// ListSubscriptions GET /api/users/subscriptions?page=&limit=&recipes_limit=
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	recipesLimit, ok := parseRecipesLimit(c)
	if !ok {
		return
	}
	page, limit := utils.ParsePagination(c, h.pageSize)

	subs, total, err := h.service.ListSubscriptions(c.Request.Context(), middleware.GetActor(c), page, limit, recipesLimit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.NewPage(subs, total, page, limit))
}

// Subscribe POST /api/users/:id/subscribe
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.Error(c, model.ErrUserNotFound)
		return
	}
	recipesLimit, ok := parseRecipesLimit(c)
	if !ok {
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), middleware.GetActor(c), id, recipesLimit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sub)
}

// Unsubscribe DELETE /api/users/:id/subscribe
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.Error(c, model.ErrUserNotFound)
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// parseRecipesLimit: không có → 0 (không giới hạn); âm hoặc không phải số → 400
func parseRecipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.BadRequest(c, "recipes_limit must be a non-negative integer")
		return 0, false
	}
	return n, true
}
