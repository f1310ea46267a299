package controllers

import (
	"net/http"
	"os"
	"strings"

	"buildflow-backend/config"
	"buildflow-backend/models"
	"buildflow-backend/services"
	"buildflow-backend/utils"

	"github.com/gin-gonic/gin"
)

// likeEscape escapes the LIKE wildcards in a literal. Generated receipt
// names always contain underscores, which LIKE would otherwise treat as
// single-character wildcards.
func likeEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// receiptReferenced reports whether any record references the file name.
// Downloads are limited to files the database knows about. Candidates are
// prefiltered with LIKE and then checked against the exact stored names.
func receiptReferenced(name string) (bool, error) {
	pattern := "%" + likeEscape(name) + "%"

	var materials []models.MaterialComponent
	err := config.DB.
		Where(`receipt_files LIKE ? ESCAPE '\'`, pattern).
		Find(&materials).Error
	if err != nil {
		return false, err
	}
	for i := range materials {
		for _, stored := range materials[i].ReceiptFileList() {
			if stored == name {
				return true, nil
			}
		}
	}

	var entries []models.BookkeepingEntry
	err = config.DB.
		Where(`receipt_files LIKE ? ESCAPE '\'`, pattern).
		Find(&entries).Error
	if err != nil {
		return false, err
	}
	for i := range entries {
		for _, stored := range entries[i].ReceiptFileList() {
			if stored == name {
				return true, nil
			}
		}
	}
	return false, nil
}

// DownloadReceipt streams a stored receipt file.
func DownloadReceipt(c *gin.Context) {
	name := c.Param("filename")

	path, err := services.Files().ReceiptPath(name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	referenced, err := receiptReferenced(name)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if !referenced {
		utils.RespondWithError(c, http.StatusNotFound, "Receipt not found")
		return
	}

	if _, err := os.Stat(path); err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Receipt file missing")
		return
	}

	c.FileAttachment(path, name)
}

// Health reports liveness including a database ping.
func Health(c *gin.Context) {
	sqlDB, err := config.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}
