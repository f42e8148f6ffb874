package schedule

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/handler"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/model"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/service/schedule"
)

type Handler struct {
	service *schedule.Service
}

func NewHandler(service *schedule.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	views := r.Group("/schedule")
	{
		views.GET("/week", h.WeekView)
		views.GET("/month", h.MonthView)
	}
}

// WeekView renders the occupancy grid for one room over the week
// containing the queried date, e.g. GET /schedule/week?room=Sala+1&date=2024-06-12.
func (h *Handler) WeekView(c *gin.Context) {
	date, err := model.NormalizeDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid or missing date"))
		return
	}
	room := c.Query("room")
	if room == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("room is required"))
		return
	}

	view, err := h.service.WeekView(c.Request.Context(), room, date)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(view))
}

func (h *Handler) MonthView(c *gin.Context) {
	date, err := model.NormalizeDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid or missing date"))
		return
	}

	view, err := h.service.MonthView(c.Request.Context(), date)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(view))
}
