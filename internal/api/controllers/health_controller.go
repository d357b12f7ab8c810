package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"iter/pkg/utils"
)

type HealthController struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewHealthController accepts a nil db for deployments without a database.
func NewHealthController(db *gorm.DB, log *zap.Logger) *HealthController {
	return &HealthController{db: db, log: log}
}

// Health godoc
// @Summary Liveness and database check
// @Tags Health
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /health [get]
func (h *HealthController) Health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			h.log.Warn("database ping failed", zap.Error(err))
			utils.RespondError(c, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}
	utils.RespondSuccess(c, gin.H{"status": "ok"}, "Service is healthy")
}
