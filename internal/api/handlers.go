package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/mesobmatch/backend/internal/apperr"
	"github.com/pageza/mesobmatch/backend/internal/database"
	"github.com/pageza/mesobmatch/backend/internal/logging"
	"github.com/pageza/mesobmatch/backend/internal/middleware"
	"github.com/pageza/mesobmatch/backend/internal/models"
	"github.com/pageza/mesobmatch/backend/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const version = "v1.0.0"

// respondError renders err as {"error": message} with the status mapped
// from its kind. Unexpected errors are logged and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatusCode(err)
	if status >= http.StatusInternalServerError {
		logging.Named("api").Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": apperr.Message(err)})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apperr.Newf(apperr.ErrInvalidInput, 0, "Invalid %s", strings.ReplaceAll(name, "_", " ")))
		return 0, false
	}
	return id, true
}

// parseIngredientIDs accepts ingredient_ids=1,2, repeated ingredient_ids
// parameters and the ingredient_ids[] form. Blank entries are ignored.
func parseIngredientIDs(c *gin.Context) ([]int64, error) {
	raw := append(c.QueryArray("ingredient_ids"), c.QueryArray("ingredient_ids[]")...)
	var ids []int64
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, apperr.Newf(apperr.ErrInvalidInput, 0, "Invalid ingredient id: %s", part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// canModify reports whether the authenticated user owns the resource or
// is an admin.
func canModify(c *gin.Context, ownerID uuid.UUID) bool {
	if middleware.GetUserRole(c) == models.RoleAdmin {
		return true
	}
	userID, ok := middleware.GetUserID(c)
	return ok && userID == ownerID
}

// HealthHandler reports database reachability and the state of the
// matching index.
type HealthHandler struct {
	db      *gorm.DB
	matches service.IMatchService
}

func NewHealthHandler(db *gorm.DB, matches service.IMatchService) *HealthHandler {
	return &HealthHandler{db: db, matches: matches}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{
		"status":  "healthy",
		"version": version,
	}

	if err := database.HealthCheck(ctx, h.db); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
		body["database"] = err.Error()
	} else {
		body["database"] = "ok"
	}

	stats, fingerprint, err := h.matches.IndexStats(ctx)
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			logging.Named("api").Warn("index unavailable for health check", zap.Error(err))
		}
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
		body["index"] = gin.H{"error": "unavailable"}
	} else {
		body["index"] = gin.H{
			"fingerprint":   fingerprint,
			"recipes":       stats.Recipes,
			"ingredients":   stats.Ingredients,
			"links":         stats.Links,
			"dropped_links": stats.DroppedLinks,
		}
	}

	c.JSON(status, body)
}
