package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/stride-backend/internal/services"
)

type ReadinessHandler struct {
	readinessService services.ReadinessService
}

func NewReadinessHandler(readinessService services.ReadinessService) *ReadinessHandler {
	return &ReadinessHandler{readinessService: readinessService}
}

// DailyCheckIn runs the gather -> score -> persist pipeline for one athlete.
// Scoring failures never surface here; only gather/persist errors do.
func (rh *ReadinessHandler) DailyCheckIn(c *gin.Context) {
	athleteID, err := uuid.Parse(c.Param("athleteID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid athlete id"})
		return
	}
	assessment, err := rh.readinessService.PerformDailyCheckIn(c.Request.Context(), athleteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessment": assessment})
}
