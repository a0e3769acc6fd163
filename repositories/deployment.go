package repositories

import (
	"errors"

	"github.com/netpad-foundry/database"
	"github.com/netpad-foundry/dto"
	"github.com/netpad-foundry/models"
	"gorm.io/gorm"
)

// ErrVersionConflict is returned when an optimistic version check fails,
// meaning another writer advanced the deployment concurrently.
var ErrVersionConflict = errors.New("deployment was modified concurrently")

// DeploymentRepository handles database operations for deployments
type DeploymentRepository struct{}

// NewDeploymentRepository creates a new deployment repository instance
func NewDeploymentRepository() *DeploymentRepository {
	return &DeploymentRepository{}
}

// GetDeployment retrieves a deployment by its ID
func (r *DeploymentRepository) GetDeployment(id string) (models.Deployment, error) {
	var deployment models.Deployment
	result := database.DB.First(&deployment, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return deployment, &models.NotFoundError{Resource: "deployment", ID: id}
	}
	return deployment, result.Error
}

// CreateDeployment inserts a new deployment into the database
func (r *DeploymentRepository) CreateDeployment(deployment models.Deployment) (models.Deployment, error) {
	result := database.DB.Create(&deployment)
	return deployment, result.Error
}

// UpdateDeployment applies a field patch under the optimistic version check
// and refreshes the in-memory record on success.
func (r *DeploymentRepository) UpdateDeployment(deployment *models.Deployment, patch map[string]interface{}) error {
	return r.versionedUpdate(deployment, patch)
}

// UpdateDeploymentStatus updates status, human-readable message and, on entry
// to failed, the lastError field.
func (r *DeploymentRepository) UpdateDeploymentStatus(deployment *models.Deployment, status models.DeploymentStatus, statusMessage, lastError string) error {
	patch := map[string]interface{}{
		"status":         status,
		"status_message": statusMessage,
	}
	if status == models.DeploymentStatusFailed {
		patch["last_error"] = lastError
	}
	return r.versionedUpdate(deployment, patch)
}

func (r *DeploymentRepository) versionedUpdate(deployment *models.Deployment, patch map[string]interface{}) error {
	patch["version"] = deployment.Version + 1

	result := database.DB.Model(&models.Deployment{}).
		Where("id = ? AND version = ?", deployment.ID, deployment.Version).
		Updates(patch)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	var refreshed models.Deployment
	if err := database.DB.First(&refreshed, "id = ?", deployment.ID).Error; err != nil {
		return err
	}
	*deployment = refreshed

	return nil
}

// ListDeployments retrieves deployments with pagination and filtering
func (r *DeploymentRepository) ListDeployments(filter dto.DeploymentFilter) ([]models.Deployment, int64, error) {
	var deployments []models.Deployment
	var totalCount int64

	db := database.DB.Model(&models.Deployment{})

	if filter.ProjectID != "" {
		db = db.Where("project_id = ?", filter.ProjectID)
	}
	if filter.OrganizationID != "" {
		db = db.Where("organization_id = ?", filter.OrganizationID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Target != "" {
		db = db.Where("target = ?", filter.Target)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	if err := db.Order("created_at DESC").Limit(filter.PageSize).Offset(offset).Find(&deployments).Error; err != nil {
		return nil, 0, err
	}

	return deployments, totalCount, nil
}

// DB returns the database instance
func (r *DeploymentRepository) DB() *gorm.DB {
	return database.DB
}
