package access

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/handler"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/model"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/service/access"
)

type Handler struct {
	service *access.Service
}

func NewHandler(service *access.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.Login)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}
