package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netpad-foundry/models"
	"github.com/netpad-foundry/repositories"
)

// respondError translates domain errors into HTTP responses
func respondError(ctx *gin.Context, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":            "validation failed",
			"validationErrors": validationErr.Errors,
		})
		return
	}

	var preconditionErr *models.PreconditionError
	if errors.As(err, &preconditionErr) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": preconditionErr.Reason})
		return
	}

	var notFoundErr *models.NotFoundError
	if errors.As(err, &notFoundErr) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
		return
	}

	// Collaborator failures have already marked the deployment failed; the
	// response carries the same message the record's lastError holds.
	var collaboratorErr *models.CollaboratorError
	if errors.As(err, &collaboratorErr) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": collaboratorErr.Error()})
		return
	}

	if errors.Is(err, repositories.ErrVersionConflict) {
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
