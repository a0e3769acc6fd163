package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/netpad-foundry/dto"
	"github.com/netpad-foundry/models"
	"github.com/netpad-foundry/utils"
)

// DeploymentStore persists deployment records. The GORM repository is the
// production implementation.
type DeploymentStore interface {
	GetDeployment(id string) (models.Deployment, error)
	CreateDeployment(deployment models.Deployment) (models.Deployment, error)
	UpdateDeployment(deployment *models.Deployment, patch map[string]interface{}) error
	UpdateDeploymentStatus(deployment *models.Deployment, status models.DeploymentStatus, statusMessage, lastError string) error
	ListDeployments(filter dto.DeploymentFilter) ([]models.Deployment, int64, error)
}

// DatabaseProvisioner creates managed database clusters
type DatabaseProvisioner interface {
	ProvisionCluster(ctx context.Context, request dto.ProvisionClusterRequest) (dto.ProvisionClusterResult, error)
}

// VaultService resolves vault references to decrypted connection strings
type VaultService interface {
	GetDecryptedConnectionString(ctx context.Context, organizationID, vaultID string) (*dto.VaultConnection, error)
}

// HostingPlatform creates hosting projects and receives environment variables
type HostingPlatform interface {
	CreateProject(ctx context.Context, request dto.CreateHostingProjectRequest) (dto.CreateHostingProjectResult, error)
	PushEnvironmentVariables(ctx context.Context, request dto.PushEnvVarsRequest) (dto.PushEnvVarsResult, error)
	GetDeploymentState(ctx context.Context, installationID, projectID string) (string, error)
}

// ConnectionCipher encrypts operator-supplied connection strings at rest
type ConnectionCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// DeploymentService advances deployments through the provisioning state
// machine. All mutable state lives in the per-deployment record, so separate
// deployments can be advanced concurrently; writes for one deployment are
// guarded by the store's optimistic version check.
type DeploymentService struct {
	store       DeploymentStore
	provisioner DatabaseProvisioner
	vault       VaultService
	hosting     HostingPlatform
	cipher      ConnectionCipher
	callTimeout time.Duration
}

// NewDeploymentService creates a deployment service over the given collaborators
func NewDeploymentService(store DeploymentStore, provisioner DatabaseProvisioner, vault VaultService, hosting HostingPlatform, cipher ConnectionCipher, callTimeout time.Duration) *DeploymentService {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &DeploymentService{
		store:       store,
		provisioner: provisioner,
		vault:       vault,
		hosting:     hosting,
		cipher:      cipher,
		callTimeout: callTimeout,
	}
}

// CreateDeployment creates a deployment record in draft. Manual-mode
// connection strings are encrypted before they reach storage.
func (s *DeploymentService) CreateDeployment(request dto.CreateDeploymentRequest, userID string) (models.Deployment, error) {
	provisioning := models.ProvisioningMode(request.DatabaseProvisioning)
	if provisioning == "" {
		provisioning = models.ProvisioningAuto
	}

	switch provisioning {
	case models.ProvisioningAuto:
	case models.ProvisioningManual:
		if request.ConnectionString == "" {
			return models.Deployment{}, models.NewValidationError("connectionString is required for manual provisioning")
		}
	case models.ProvisioningExisting:
		if request.VaultID == "" {
			return models.Deployment{}, models.NewValidationError("vaultId is required for existing provisioning")
		}
	default:
		return models.Deployment{}, models.NewValidationError(fmt.Sprintf("unknown provisioning mode: %s", provisioning))
	}

	deployment := models.Deployment{
		ID:                   uuid.NewString(),
		ProjectID:            request.ProjectID,
		OrganizationID:       request.OrganizationID,
		Target:               request.Target,
		AppName:              request.AppName,
		Environment:          request.Environment,
		Status:               models.DeploymentStatusDraft,
		DatabaseProvisioning: provisioning,
		VaultID:              request.VaultID,
		DatabaseName:         request.DatabaseName,
		EnvironmentVariables: request.EnvironmentVariables,
		VercelInstallationID: request.VercelInstallationID,
		Version:              1,
	}
	if deployment.Target == "" {
		deployment.Target = "vercel"
	}
	if deployment.Environment == "" {
		deployment.Environment = "production"
	}
	if deployment.DatabaseName == "" {
		deployment.DatabaseName = "netpad_app"
	}
	if deployment.EnvironmentVariables == nil {
		deployment.EnvironmentVariables = models.EnvVars{}
	}

	if provisioning == models.ProvisioningManual {
		encrypted, err := s.cipher.Encrypt(request.ConnectionString)
		if err != nil {
			return models.Deployment{}, fmt.Errorf("failed to encrypt connection string: %w", err)
		}
		deployment.ConnectionString = encrypted
	}

	return s.store.CreateDeployment(deployment)
}

// GetDeployment fetches a single deployment record
func (s *DeploymentService) GetDeployment(id string) (dto.DeploymentResponse, error) {
	deployment, err := s.store.GetDeployment(id)
	if err != nil {
		return dto.DeploymentResponse{}, err
	}
	return dto.NewDeploymentResponseFromModel(deployment), nil
}

// ListDeployments retrieves deployments with pagination and filtering
func (s *DeploymentService) ListDeployments(filter dto.DeploymentFilter) (dto.DeploymentListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	deployments, totalCount, err := s.store.ListDeployments(filter)
	if err != nil {
		return dto.DeploymentListResponse{}, err
	}

	responses := make([]dto.DeploymentResponse, 0, len(deployments))
	for _, deployment := range deployments {
		responses = append(responses, dto.NewDeploymentResponseFromModel(deployment))
	}

	totalPages := int(totalCount) / filter.PageSize
	if int(totalCount)%filter.PageSize > 0 {
		totalPages++
	}

	return dto.DeploymentListResponse{
		Deployments: responses,
		TotalCount:  totalCount,
		Page:        filter.Page,
		PageSize:    filter.PageSize,
		TotalPages:  totalPages,
	}, nil
}

// Deploy runs the provisioning step sequence once. Every step is idempotent
// (check-then-create, check-then-generate), so re-invoking after a failure
// resumes from the persisted state instead of duplicating external resources.
func (s *DeploymentService) Deploy(ctx context.Context, id, userID string) (dto.DeployResponse, error) {
	deployment, err := s.store.GetDeployment(id)
	if err != nil {
		return dto.DeployResponse{}, err
	}

	switch deployment.Status {
	case models.DeploymentStatusDraft, models.DeploymentStatusConfiguring, models.DeploymentStatusFailed:
	default:
		return dto.DeployResponse{}, &models.PreconditionError{
			Reason: fmt.Sprintf("deployment is %s; deploy requires draft, configuring or failed", deployment.Status),
		}
	}

	// Hard precondition: without a hosting installation there is nothing to
	// deploy to. Fail before any external call.
	if deployment.VercelInstallationID == "" {
		s.fail(&deployment, "Vercel integration not configured")
		return dto.DeployResponse{}, &models.PreconditionError{Reason: "Vercel integration not configured"}
	}

	// Persist intent first so concurrent status pollers see it immediately
	if err := s.setStatus(&deployment, models.DeploymentStatusConfiguring, "Preparing deployment configuration"); err != nil {
		return dto.DeployResponse{}, err
	}

	connectionString, databaseName, err := s.resolveConnectionString(ctx, &deployment, userID)
	if err != nil {
		return dto.DeployResponse{}, err
	}
	if connectionString == "" {
		s.fail(&deployment, "No database connection string available")
		return dto.DeployResponse{}, errors.New("no database connection string available")
	}
	if databaseName == "" {
		databaseName = deployment.DatabaseName
	}

	env, err := s.assembleEnvironment(&deployment, connectionString, databaseName)
	if err != nil {
		return dto.DeployResponse{}, err
	}

	appName := utils.SanitizeAppName(deployment.AppName)

	// Create the hosting project only once; the id is persisted immediately
	// so a retried deploy reuses it instead of creating duplicates.
	if deployment.VercelProjectID == "" {
		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		result, err := s.hosting.CreateProject(callCtx, dto.CreateHostingProjectRequest{
			InstallationID: deployment.VercelInstallationID,
			Name:           appName,
			Framework:      "nextjs",
		})
		cancel()
		if err != nil {
			return dto.DeployResponse{}, s.failWith(&deployment, "hosting platform", err.Error())
		}
		if !result.Success {
			return dto.DeployResponse{}, s.failWith(&deployment, "hosting platform", result.Error)
		}

		if err := s.store.UpdateDeployment(&deployment, map[string]interface{}{
			"vercel_project_id": result.Data.ID,
		}); err != nil {
			return dto.DeployResponse{}, err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	pushResult, err := s.hosting.PushEnvironmentVariables(callCtx, dto.PushEnvVarsRequest{
		InstallationID: deployment.VercelInstallationID,
		ProjectID:      deployment.VercelProjectID,
		EnvVars:        env,
	})
	cancel()
	if err != nil {
		return dto.DeployResponse{}, s.failWith(&deployment, "hosting platform", err.Error())
	}
	if !pushResult.Success {
		return dto.DeployResponse{}, s.failWith(&deployment, "hosting platform", pushResult.Error)
	}

	if err := s.setStatus(&deployment, models.DeploymentStatusDeploying, "Application build started on the hosting platform"); err != nil {
		return dto.DeployResponse{}, err
	}

	log.Println("Deployment handed off to hosting platform:", deployment.ID)

	return dto.DeployResponse{
		DeploymentID:  deployment.ID,
		Status:        string(deployment.Status),
		StatusMessage: deployment.StatusMessage,
		URL:           fmt.Sprintf("https://%s.vercel.app", appName),
	}, nil
}

// resolveConnectionString resolves the database connection string for the
// deployment according to its provisioning mode. The cleartext is returned in
// memory only and never written back to the record.
func (s *DeploymentService) resolveConnectionString(ctx context.Context, deployment *models.Deployment, userID string) (string, string, error) {
	switch deployment.DatabaseProvisioning {
	case models.ProvisioningAuto:
		if err := s.setStatus(deployment, models.DeploymentStatusProvisioning, "Provisioning database cluster"); err != nil {
			return "", "", err
		}

		if deployment.ClusterID == "" {
			callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
			result, err := s.provisioner.ProvisionCluster(callCtx, dto.ProvisionClusterRequest{
				OrganizationID: deployment.OrganizationID,
				ProjectID:      deployment.ProjectID,
				UserID:         userID,
			})
			cancel()
			if err != nil {
				return "", "", s.failWith(deployment, "database provisioning", err.Error())
			}
			if !result.Success {
				return "", "", s.failWith(deployment, "database provisioning", result.Error)
			}

			if err := s.store.UpdateDeployment(deployment, map[string]interface{}{
				"cluster_id": result.ClusterID,
				"vault_id":   result.VaultID,
			}); err != nil {
				return "", "", err
			}
		}

		return s.decryptVaultEntry(ctx, deployment)

	case models.ProvisioningExisting:
		return s.decryptVaultEntry(ctx, deployment)

	case models.ProvisioningManual:
		if deployment.ConnectionString == "" {
			return "", "", nil
		}
		connectionString, err := s.cipher.Decrypt(deployment.ConnectionString)
		if err != nil {
			return "", "", s.failWith(deployment, "vault", err.Error())
		}
		return connectionString, "", nil
	}

	return "", "", nil
}

func (s *DeploymentService) decryptVaultEntry(ctx context.Context, deployment *models.Deployment) (string, string, error) {
	if deployment.VaultID == "" {
		return "", "", nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	connection, err := s.vault.GetDecryptedConnectionString(callCtx, deployment.OrganizationID, deployment.VaultID)
	cancel()
	if err != nil {
		return "", "", s.failWith(deployment, "vault", err.Error())
	}
	if connection == nil {
		return "", "", nil
	}

	return connection.ConnectionString, connection.Database, nil
}

// assembleEnvironment merges, in order of increasing precedence, the stored
// environment, freshly generated secrets for variables that do not exist yet,
// the resolved connection string, and the fixed standalone flags. Generated
// secrets are persisted so re-deploying never rotates them; the connection
// string is pushed to the hosting platform but never persisted in clear.
func (s *DeploymentService) assembleEnvironment(deployment *models.Deployment, connectionString, databaseName string) (map[string]string, error) {
	env := make(models.EnvVars, len(deployment.EnvironmentVariables)+8)
	for key, value := range deployment.EnvironmentVariables {
		env[key] = value
	}

	if _, exists := env["SESSION_SECRET"]; !exists {
		secret, err := utils.GenerateHexSecret(32)
		if err != nil {
			return nil, s.failWith(deployment, "secret generator", err.Error())
		}
		env["SESSION_SECRET"] = secret
	}
	if _, exists := env["VAULT_ENCRYPTION_KEY"]; !exists {
		secret, err := utils.GenerateBase64Secret(32)
		if err != nil {
			return nil, s.failWith(deployment, "secret generator", err.Error())
		}
		env["VAULT_ENCRYPTION_KEY"] = secret
	}

	persisted := make(models.EnvVars, len(env))
	for key, value := range env {
		persisted[key] = value
	}
	if err := s.store.UpdateDeployment(deployment, map[string]interface{}{
		"environment_variables": persisted,
	}); err != nil {
		return nil, err
	}

	env["MONGODB_URI"] = connectionString
	env["MONGODB_DB"] = databaseName
	if _, exists := env["NETPAD_MODE"]; !exists {
		env["NETPAD_MODE"] = "standalone"
	}
	if _, exists := env["NEXT_PUBLIC_APP_URL"]; !exists {
		env["NEXT_PUBLIC_APP_URL"] = "${VERCEL_URL}"
	}
	if _, exists := env["APP_BASE_URL"]; !exists {
		env["APP_BASE_URL"] = "${VERCEL_URL}"
	}

	return env, nil
}

// CheckDeploymentStatus asks the hosting platform whether a deploying
// application has gone live and advances the record accordingly.
func (s *DeploymentService) CheckDeploymentStatus(ctx context.Context, id string) (dto.DeploymentResponse, error) {
	deployment, err := s.store.GetDeployment(id)
	if err != nil {
		return dto.DeploymentResponse{}, err
	}

	if deployment.Status != models.DeploymentStatusDeploying {
		return dto.NewDeploymentResponseFromModel(deployment), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	state, err := s.hosting.GetDeploymentState(callCtx, deployment.VercelInstallationID, deployment.VercelProjectID)
	cancel()
	if err != nil {
		return dto.DeploymentResponse{}, &models.CollaboratorError{Service: "hosting platform", Message: err.Error()}
	}

	switch state {
	case "ready":
		if err := s.setStatus(&deployment, models.DeploymentStatusActive, "Deployment is live"); err != nil {
			return dto.DeploymentResponse{}, err
		}
	case "error":
		s.fail(&deployment, "Hosting platform reported a failed build")
	}

	return dto.NewDeploymentResponseFromModel(deployment), nil
}

func (s *DeploymentService) setStatus(deployment *models.Deployment, status models.DeploymentStatus, message string) error {
	if !deployment.Status.CanTransitionTo(status) {
		return &models.PreconditionError{
			Reason: fmt.Sprintf("illegal status transition: %s -> %s", deployment.Status, status),
		}
	}
	return s.store.UpdateDeploymentStatus(deployment, status, message, "")
}

// fail records the failure on the deployment. A secondary persistence failure
// is logged but never masks the original error returned to the caller.
func (s *DeploymentService) fail(deployment *models.Deployment, message string) {
	if err := s.store.UpdateDeploymentStatus(deployment, models.DeploymentStatusFailed, "Deployment failed", message); err != nil {
		log.Println("Warning: failed to persist failure status:", err)
	}
}

func (s *DeploymentService) failWith(deployment *models.Deployment, service, message string) error {
	s.fail(deployment, message)
	return &models.CollaboratorError{Service: service, Message: message}
}
