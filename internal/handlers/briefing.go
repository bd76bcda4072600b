package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/stride-backend/internal/services"
)

type BriefingHandler struct {
	briefingService services.BriefingService
}

func NewBriefingHandler(briefingService services.BriefingService) *BriefingHandler {
	return &BriefingHandler{briefingService: briefingService}
}

func (bh *BriefingHandler) GenerateAudioBriefing(c *gin.Context) {
	athleteID, err := uuid.Parse(c.Param("athleteID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid athlete id"})
		return
	}
	url, err := bh.briefingService.GenerateAudioBriefing(c.Request.Context(), athleteID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audio_url": url})
}
