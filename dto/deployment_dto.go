package dto

import (
	"time"

	"github.com/netpad-foundry/models"
)

// CreateDeploymentRequest is the payload for creating a deployment record
type CreateDeploymentRequest struct {
	ProjectID            string            `json:"projectId" binding:"required"`
	OrganizationID       string            `json:"organizationId" binding:"required"`
	AppName              string            `json:"appName" binding:"required"`
	Target               string            `json:"target"`
	Environment          string            `json:"environment"`
	DatabaseProvisioning string            `json:"databaseProvisioning"`
	DatabaseName         string            `json:"databaseName"`
	ConnectionString     string            `json:"connectionString"` // manual provisioning only
	VaultID              string            `json:"vaultId"`          // existing provisioning only
	VercelInstallationID string            `json:"vercelInstallationId"`
	EnvironmentVariables map[string]string `json:"environmentVariables"`
}

// DeploymentFilter represents filter criteria for the deployment list
type DeploymentFilter struct {
	ProjectID      string
	OrganizationID string
	Status         string
	Target         string
	Page           int
	PageSize       int
}

// DeploymentResponse is the API shape of a deployment record. Environment
// variable values and the connection string never appear here; pollers only
// get the variable names.
type DeploymentResponse struct {
	DeploymentID         string    `json:"deploymentId"`
	ProjectID            string    `json:"projectId"`
	OrganizationID       string    `json:"organizationId"`
	Target               string    `json:"target"`
	AppName              string    `json:"appName"`
	Environment          string    `json:"environment"`
	Status               string    `json:"status"`
	StatusMessage        string    `json:"statusMessage,omitempty"`
	LastError            string    `json:"lastError,omitempty"`
	DatabaseProvisioning string    `json:"databaseProvisioning"`
	ClusterID            string    `json:"clusterId,omitempty"`
	DatabaseName         string    `json:"databaseName"`
	EnvironmentKeys      []string  `json:"environmentKeys"`
	VercelProjectID      string    `json:"vercelProjectId,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// NewDeploymentResponseFromModel creates a DeploymentResponse from a models.Deployment
func NewDeploymentResponseFromModel(deployment models.Deployment) DeploymentResponse {
	keys := make([]string, 0, len(deployment.EnvironmentVariables))
	for key := range deployment.EnvironmentVariables {
		keys = append(keys, key)
	}

	return DeploymentResponse{
		DeploymentID:         deployment.ID,
		ProjectID:            deployment.ProjectID,
		OrganizationID:       deployment.OrganizationID,
		Target:               deployment.Target,
		AppName:              deployment.AppName,
		Environment:          deployment.Environment,
		Status:               string(deployment.Status),
		StatusMessage:        deployment.StatusMessage,
		LastError:            deployment.LastError,
		DatabaseProvisioning: string(deployment.DatabaseProvisioning),
		ClusterID:            deployment.ClusterID,
		DatabaseName:         deployment.DatabaseName,
		EnvironmentKeys:      keys,
		VercelProjectID:      deployment.VercelProjectID,
		CreatedAt:            deployment.CreatedAt,
		UpdatedAt:            deployment.UpdatedAt,
	}
}

// DeploymentListResponse represents a paginated deployment list
type DeploymentListResponse struct {
	Deployments []DeploymentResponse `json:"deployments"`
	TotalCount  int64                `json:"totalCount"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"pageSize"`
	TotalPages  int                  `json:"totalPages"`
}

// DeployResponse is returned when a deploy run has been handed off to the
// hosting platform; URL is predicted from the normalized app name.
type DeployResponse struct {
	DeploymentID  string `json:"deploymentId"`
	Status        string `json:"status"`
	StatusMessage string `json:"statusMessage"`
	URL           string `json:"url"`
}
