package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"buildflow-backend/services"
	"buildflow-backend/utils"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// parseUintField parses an id embedded in a form field name.
func parseUintField(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err
}

// respondServiceError maps a domain error to the HTTP status taxonomy.
// Unknown errors become a 500 with a generic body.
func respondServiceError(c *gin.Context, err error) {
	var guard *services.MaterialCostsMissingError
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Record not found")
	case errors.Is(err, services.ErrInvoiceExists):
		utils.RespondWithError(c, http.StatusConflict, "An invoice already exists for this order")
	case errors.Is(err, services.ErrOrderInvoiced):
		utils.RespondWithError(c, http.StatusConflict, "Order is locked by an existing invoice")
	case errors.Is(err, services.ErrNoWorkComponents):
		utils.RespondWithError(c, http.StatusBadRequest, "Order has no work components")
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &guard):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":            "Material costs missing",
			"missingMaterials": guard.Materials,
		})
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
