package controllers

import (
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netpad-foundry/config"
	"github.com/netpad-foundry/dto"
	"github.com/netpad-foundry/lib/atlas"
	"github.com/netpad-foundry/lib/vault"
	"github.com/netpad-foundry/lib/vercel"
	"github.com/netpad-foundry/middleware"
	"github.com/netpad-foundry/models"
	"github.com/netpad-foundry/repositories"
	"github.com/netpad-foundry/services"
)

// DeploymentController handles deployment-related API endpoints
type DeploymentController struct {
	deploymentService *services.DeploymentService
	bundleService     *services.BundleService
}

// NewDeploymentController wires the deployment service to its production
// collaborators. The local cipher secret must be set in production; the dev
// fallback only exists so a fresh checkout boots.
func NewDeploymentController() *DeploymentController {
	cipher, err := vault.NewCipher(config.GetEnv("VAULT_LOCAL_KEY", "netpad-foundry-dev-key"))
	if err != nil {
		log.Fatalf("Failed to initialize vault cipher: %v", err)
	}

	callTimeout := time.Duration(config.GetEnvInt("COLLABORATOR_TIMEOUT_SECONDS", 30)) * time.Second

	return &DeploymentController{
		deploymentService: services.NewDeploymentService(
			repositories.NewDeploymentRepository(),
			atlas.NewClient(),
			vault.NewClient(),
			vercel.NewClient(),
			cipher,
			callTimeout,
		),
		bundleService: services.NewBundleService(),
	}
}

// RegisterRoutes registers deployment routes
func (c *DeploymentController) RegisterRoutes(router *gin.RouterGroup) {
	deployments := router.Group("/deployments")
	{
		deployments.POST("", c.CreateDeployment)
		deployments.GET("", c.ListDeployments)
		deployments.GET("/:id", c.GetDeployment)
		deployments.POST("/:id/deploy", c.Deploy)
		deployments.GET("/:id/status", c.GetDeploymentStatus)
		deployments.POST("/:id/inject-bundle", c.InjectBundle)
		deployments.GET("/:id/inject-bundle", c.GetBundleStatus)
	}
}

// CreateDeployment creates a deployment record in draft
func (c *DeploymentController) CreateDeployment(ctx *gin.Context) {
	var req dto.CreateDeploymentRequest
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

	deployment, err := c.deploymentService.CreateDeployment(req, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"deployment": dto.NewDeploymentResponseFromModel(deployment),
	})
}

// ListDeployments retrieves deployments with pagination and filtering
func (c *DeploymentController) ListDeployments(ctx *gin.Context) {
	claims, ok := middleware.GetClaims(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	filter := dto.DeploymentFilter{
		ProjectID:      ctx.Query("projectId"),
		OrganizationID: ctx.Query("organizationId"),
		Status:         ctx.Query("status"),
		Target:         ctx.Query("target"),
	}
	filter.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(ctx.DefaultQuery("pageSize", "10"))

	if filter.OrganizationID == "" && filter.ProjectID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "projectId or organizationId query parameter is required"})
		return
	}
	if filter.OrganizationID != "" && !claims.HasOrganization(filter.OrganizationID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No access to this organization"})
		return
	}

	response, err := c.deploymentService.ListDeployments(filter)
	if err != nil {
		respondError(ctx, err)
		return
	}

	// Project-scoped queries carry no organization id, so membership is
	// enforced against the records themselves.
	if filter.OrganizationID == "" {
		for _, deployment := range response.Deployments {
			if !claims.HasOrganization(deployment.OrganizationID) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "No access to this organization"})
				return
			}
		}
	}

	ctx.JSON(http.StatusOK, response)
}

// GetDeployment retrieves a single deployment
func (c *DeploymentController) GetDeployment(ctx *gin.Context) {
	deployment, err := c.deploymentService.GetDeployment(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	if !c.authorize(ctx, deployment.OrganizationID) {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"deployment": deployment,
	})
}

// Deploy runs the provisioning sequence for a deployment
func (c *DeploymentController) Deploy(ctx *gin.Context) {
	claims, ok := middleware.GetClaims(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	deployment, err := c.deploymentService.GetDeployment(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	if !c.authorize(ctx, deployment.OrganizationID) {
		return
	}

	response, err := c.deploymentService.Deploy(ctx.Request.Context(), deployment.DeploymentID, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"deployment": response,
	})
}

// GetDeploymentStatus polls the hosting platform for deploying records and
// returns the refreshed deployment.
func (c *DeploymentController) GetDeploymentStatus(ctx *gin.Context) {
	deployment, err := c.deploymentService.GetDeployment(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	if !c.authorize(ctx, deployment.OrganizationID) {
		return
	}

	refreshed, err := c.deploymentService.CheckDeploymentStatus(ctx.Request.Context(), deployment.DeploymentID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"deployment": refreshed,
	})
}

// InjectBundle writes a bundle into the deployment's template directory
func (c *DeploymentController) InjectBundle(ctx *gin.Context) {
	deployment, err := c.deploymentService.GetDeployment(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	if !c.authorize(ctx, deployment.OrganizationID) {
		return
	}

	var bundle models.Bundle
	if err := ctx.ShouldBindJSON(&bundle); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bundlePath, err := c.bundleService.InjectBundle(c.templatePath(deployment.DeploymentID), bundle)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.InjectBundleResponse{
		Success:    true,
		BundlePath: bundlePath,
		Bundle: dto.BundleSummary{
			Name:           bundle.Manifest.Name,
			Version:        bundle.Manifest.Version,
			FormsCount:     len(bundle.Forms),
			WorkflowsCount: len(bundle.Workflows),
		},
	})
}

// GetBundleStatus reports whether a bundle has been injected
func (c *DeploymentController) GetBundleStatus(ctx *gin.Context) {
	deployment, err := c.deploymentService.GetDeployment(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	if !c.authorize(ctx, deployment.OrganizationID) {
		return
	}

	status, err := c.bundleService.BundleStatus(c.templatePath(deployment.DeploymentID))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, status)
}

func (c *DeploymentController) templatePath(deploymentID string) string {
	return filepath.Join(config.GetEnv("NETPAD_TEMPLATE_DIR", "./templates"), deploymentID)
}

// authorize enforces organization membership and writes the 403 itself
func (c *DeploymentController) authorize(ctx *gin.Context, organizationID string) bool {
	claims, ok := middleware.GetClaims(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return false
	}
	if !claims.HasOrganization(organizationID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No access to this organization"})
		return false
	}
	return true
}
