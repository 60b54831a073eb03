package application

import (
	"net/http"

	"circlepoint/internal/middleware"
	"circlepoint/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected, admin *gin.RouterGroup) {
	protected.POST("/applications", h.Submit)

	admin.GET("/applications", h.List)
	admin.POST("/applications/:id/approve", h.Approve)
	admin.POST("/applications/:id/reject", h.Reject)
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	a, err := h.service.Submit(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"application": a})
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}
	res, err := h.service.List(c.Request.Context(), middleware.ActorFrom(c), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Approve(c *gin.Context) {
	a, err := h.service.Approve(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"application": a})
}

func (h *Handler) Reject(c *gin.Context) {
	// An empty or missing body still reaches the service so the missing
	// reason is reported as such.
	var req RejectRequest
	_ = c.ShouldBindJSON(&req)

	a, err := h.service.Reject(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"application": a})
}
