package roster

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/handler"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/model"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/service/roster"
)

type Handler struct {
	service *roster.Service
}

func NewHandler(service *roster.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts registration for everyone and management for
// staff. staffOnly gates the list/edit/delete surface.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, staffOnly gin.HandlerFunc) {
	students := r.Group("/students")
	{
		students.POST("", h.CreateStudent)
		students.GET("", staffOnly, h.ListStudents)
		students.GET("/:id", staffOnly, h.GetStudent)
		students.PUT("/:id", staffOnly, h.UpdateStudent)
		students.DELETE("/:id", staffOnly, h.DeleteStudent)
	}
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var req model.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	student, err := h.service.CreateStudent(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(model.NewStudentResponse(student, time.Now())))
}

func (h *Handler) GetStudent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid student ID"))
		return
	}

	student, err := h.service.GetStudent(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.NewStudentResponse(student, time.Now())))
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid student ID"))
		return
	}

	var req model.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	student, err := h.service.UpdateStudent(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.NewStudentResponse(student, time.Now())))
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid student ID"))
		return
	}

	if err := h.service.DeleteStudent(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, &handler.Response{Status: "success", Message: "student deleted"})
}

func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.service.ListStudents(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	now := time.Now()
	out := make([]model.StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, model.NewStudentResponse(s, now))
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(out))
}
