package controllers

import (
	"net/http"

	"buildflow-backend/config"
	"buildflow-backend/models"
	"buildflow-backend/services"
	"buildflow-backend/utils"

	"github.com/gin-gonic/gin"
)

// statsService is wired in main after the database is up.
var statsService *services.StatisticsService

// SetStatisticsService injects the shared statistics service.
func SetStatisticsService(s *services.StatisticsService) {
	statsService = s
}

// GetStatistics lists the recorded monthly statistics, newest month first.
func GetStatistics(c *gin.Context) {
	var stats []models.MonthlyStatistic
	if err := config.DB.Order("date DESC, category").Find(&stats).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RefreshStatistics triggers a recompute outside the nightly schedule.
func RefreshStatistics(c *gin.Context) {
	if statsService == nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Statistics service not available")
		return
	}

	inserted, err := statsService.Refresh()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Statistics refresh failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Statistics refreshed",
		"inserted": inserted,
	})
}
