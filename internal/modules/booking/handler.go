package booking

import (
	"net/http"

	"circlepoint/internal/domain"
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

// RegisterRoutes mounts guest routes on protected and review routes on
// manager.
func (h *Handler) RegisterRoutes(protected, manager *gin.RouterGroup) {
	protected.POST("/bookings", h.SubmitDeclaration)
	protected.POST("/bookings/quick", h.SubmitQuick)
	protected.GET("/bookings/mine", h.ListMine)
	protected.GET("/bookings/:id", h.Get)
	protected.GET("/bookings/:id/letters/:kind", h.Letter)

	manager.GET("/bookings", h.ListManaged)
	manager.POST("/bookings/:id/approve", h.Approve)
	manager.POST("/bookings/:id/reject", h.Reject)
	manager.DELETE("/bookings/:id", h.Delete)
}

type bookingView struct {
	*domain.Booking
	TotalPriceDisplay string `json:"total_price_display"`
}

func view(b *domain.Booking) bookingView {
	return bookingView{Booking: b, TotalPriceDisplay: b.TotalPrice.StringFixed(2)}
}

func views(items []domain.Booking) []bookingView {
	out := make([]bookingView, 0, len(items))
	for i := range items {
		out = append(out, view(&items[i]))
	}
	return out
}

func (h *Handler) SubmitDeclaration(c *gin.Context) { h.submit(c, FlowDeclaration) }

func (h *Handler) SubmitQuick(c *gin.Context) { h.submit(c, FlowQuick) }

func (h *Handler) submit(c *gin.Context, flow Flow) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.Submit(c.Request.Context(), middleware.ActorFrom(c), req, flow)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": view(b)})
}

func (h *Handler) Get(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": view(b)})
}

func (h *Handler) ListMine(c *gin.Context) {
	items, err := h.service.ListMine(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": views(items)})
}

func (h *Handler) ListManaged(c *gin.Context) {
	var q ListManagedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	items, total, err := h.service.ListManaged(c.Request.Context(), middleware.ActorFrom(c), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"bookings": views(items),
		"total":    total,
	})
}

func (h *Handler) Approve(c *gin.Context) {
	b, err := h.service.Approve(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": view(b)})
}

func (h *Handler) Reject(c *gin.Context) {
	b, err := h.service.Reject(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": view(b)})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) Letter(c *gin.Context) {
	html, err := h.service.RenderLetter(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), LetterKind(c.Param("kind")))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}
