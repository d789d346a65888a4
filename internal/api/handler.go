package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"booking-service/internal/auth"
	"booking-service/internal/service"
	"booking-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ReadinessCheck reports whether a dependency can serve traffic
type ReadinessCheck func(ctx context.Context) error

// Handler contains HTTP handlers
type Handler struct {
	bookingService *service.BookingService
	guard          *auth.Guard
	readiness      map[string]ReadinessCheck
	logger         *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(bookingService *service.BookingService, guard *auth.Guard) *Handler {
	return &Handler{
		bookingService: bookingService,
		guard:          guard,
		readiness:      make(map[string]ReadinessCheck),
		logger:         util.GetLogger(),
	}
}

// AddReadinessCheck registers a dependency probed by /ready
func (h *Handler) AddReadinessCheck(name string, check ReadinessCheck) {
	h.readiness[name] = check
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(requestLogger(h.logger))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api", h.requireAPIKey())
	{
		api.GET("/menu", h.getMenu)
		api.GET("/available", h.getAvailable)

		api.POST("/book-food", h.bookFood)
		api.POST("/book/food", h.bookFood)
		api.POST("/book-movie", h.bookMovie)
		api.POST("/book/movie", h.bookMovie)

		api.GET("/bookings", h.listBookings)
		api.GET("/bookings/:id", h.getBooking)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck probes registered dependencies
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, check := range h.readiness {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"failed": failed,
			"time":   time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) getMenu(c *gin.Context) {
	items, categories := h.bookingService.Menu()
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"items":      items,
		"categories": categories,
	})
}

func (h *Handler) getAvailable(c *gin.Context) {
	food, movies := h.bookingService.Available()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"food":    food,
		"movies":  movies,
	})
}

func (h *Handler) bookFood(c *gin.Context) {
	var req service.BookFoodRequest
	if !bindBody(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	resp, err := h.bookingService.BookFood(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) bookMovie(c *gin.Context) {
	var req service.BookMovieRequest
	if !bindBody(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	resp, err := h.bookingService.BookMovie(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) listBookings(c *gin.Context) {
	records, err := h.bookingService.ListBookings(c.Request.Context(), c.Query("type"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"bookings": records,
		"count":    len(records),
		"message":  fmt.Sprintf("%d bookings found.", len(records)),
	})
}

func (h *Handler) getBooking(c *gin.Context) {
	record, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"booking": record,
	})
}

// bindBody decodes the JSON body. An empty body decodes to the zero request so
// the pipeline reports the missing fields.
func bindBody(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Invalid request body",
		"details": err.Error(),
	})
	return false
}

// writeError maps pipeline errors to status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{
			"success": false,
			"error":   "Internal server error",
		})
		return
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrInvalidField),
		errors.Is(err, service.ErrOutOfServiceArea),
		errors.Is(err, service.ErrItemUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrMovieNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrBookingInProgress),
		errors.Is(err, service.ErrIdempotencyConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
