package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Siddharth20050904/inventory-management/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type APIHandler struct {
	checks map[string]Pinger
	logger *zap.Logger
}

func NewAPIHandler(checks map[string]Pinger, logger *zap.Logger) *APIHandler {
	return &APIHandler{checks: checks, logger: logger}
}

func (h *APIHandler) Health(c *gin.Context) {
	status := http.StatusOK
	result := gin.H{}
	for name, check := range h.checks {
		if err := check.Ping(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			result[name] = err.Error()
			continue
		}
		result[name] = "ok"
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": result})
}

// respondError maps service errors onto HTTP status codes.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		validation   *services.ValidationError
		notFound     *services.NotFoundError
		compensation *services.CompensationError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validation.Error(), Details: gin.H{"field": validation.Field}})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: notFound.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.As(err, &compensation):
		logger.Error("inventory left inconsistent", zap.String("op", compensation.Op), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "inventory_inconsistent", Details: compensation.Op})
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, "invalid "+key)
		return 0, false
	}
	return v, true
}
