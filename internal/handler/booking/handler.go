package booking

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/handler"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/model"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/service/booking"
)

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, staffOnly gin.HandlerFunc) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", staffOnly, h.ListBookings)
		bookings.GET("/occupancy", h.GetOccupancy)
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	b, err := h.service.Book(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(b))
}

func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(bookings))
}

// GetOccupancy answers how many bookings exist for a (date, slot, room)
// triple, e.g. GET /bookings/occupancy?date=2024-06-10&slot=09:00&room=Sala+1.
func (h *Handler) GetOccupancy(c *gin.Context) {
	date, err := model.NormalizeDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid or missing date"))
		return
	}
	slot := c.Query("slot")
	room := c.Query("room")
	if slot == "" || room == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("slot and room are required"))
		return
	}

	count, err := h.service.CountOccupancy(c.Request.Context(), date, slot, room)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"date":      date.Format(model.DateLayout),
		"time_slot": slot,
		"room":      room,
		"count":     count,
	}))
}
