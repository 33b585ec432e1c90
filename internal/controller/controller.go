package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/litdrill/internal/dto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Healthz godoc
// @Summary Liveness and database check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} dto.ErrorResponse
// @Router /healthz [get]
func (c *HealthController) Healthz(ctx *gin.Context) {
	sqlDB, err := c.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.Request.Context())
	}
	if err != nil {
		log.Error().Err(err).Msg("Healthz: database ping failed")
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: "database unavailable", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
