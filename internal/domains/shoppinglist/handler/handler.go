package handler

import (
	"github.com/gin-gonic/gin"

	"foodgram-backend/internal/domains/shoppinglist/service"
	"foodgram-backend/internal/shared/middleware"
	"foodgram-backend/internal/shared/response"
)

type ShoppingListHandler struct {
	service service.Service
}

func NewShoppingListHandler(s service.Service) *ShoppingListHandler {
	return &ShoppingListHandler{service: s}
}

// Download GET /api/recipes/download_shopping_cart?format=pdf|xlsx
func (h *ShoppingListHandler) Download(c *gin.Context) {
	doc, err := h.service.Export(c.Request.Context(), middleware.GetActor(c), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, doc.FileName, doc.ContentType, doc.Data)
}
