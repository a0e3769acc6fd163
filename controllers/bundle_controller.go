package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netpad-foundry/dto"
	"github.com/netpad-foundry/middleware"
	"github.com/netpad-foundry/services"
)

// BundleController handles bundle export and import endpoints
type BundleController struct {
	exportService *services.ExportService
}

// NewBundleController creates a new bundle controller
func NewBundleController() *BundleController {
	return &BundleController{
		exportService: services.NewExportService(),
	}
}

// RegisterRoutes registers bundle routes
func (c *BundleController) RegisterRoutes(router *gin.RouterGroup) {
	bundles := router.Group("/bundles")
	{
		bundles.POST("/export", c.ExportBundle)
		bundles.POST("/import", c.ImportBundle)
	}
}

// ExportBundle packages the submitted project records into a portable bundle
func (c *BundleController) ExportBundle(ctx *gin.Context) {
	var req dto.ExportBundleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bundle, err := c.exportService.ExportBundle(req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"bundle":  bundle,
	})
}

// ImportBundle materializes a bundle's forms and workflows into the caller's
// organization.
func (c *BundleController) ImportBundle(ctx *gin.Context) {
	var req dto.ImportBundleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, ok := middleware.GetClaims(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	if !claims.HasOrganization(req.OrganizationID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No access to this organization"})
		return
	}
	if req.UserID == "" {
		req.UserID = claims.UserID
	}

	response, err := c.exportService.ImportBundle(req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}
