package dto

// ProvisionClusterRequest asks the managed-database provider for a new
// free-tier cluster scoped to an organization/project pair
type ProvisionClusterRequest struct {
	OrganizationID string `json:"organizationId"`
	ProjectID      string `json:"projectId"`
	UserID         string `json:"userId"`
}

// ProvisionClusterResult is the provider's answer; on success the connection
// string is stored in the vault under VaultID, never returned in clear.
type ProvisionClusterResult struct {
	Success   bool   `json:"success"`
	ClusterID string `json:"clusterId,omitempty"`
	VaultID   string `json:"vaultId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// VaultConnection is a decrypted connection string held in memory only
type VaultConnection struct {
	ConnectionString string `json:"connectionString"`
	Database         string `json:"database"`
}

// CreateHostingProjectRequest asks the hosting platform for a new project
type CreateHostingProjectRequest struct {
	InstallationID string `json:"installationId"`
	Name           string `json:"name"`
	Framework      string `json:"framework"`
}

// CreateHostingProjectResult is the hosting platform's answer
type CreateHostingProjectResult struct {
	Success bool `json:"success"`
	Data    struct {
		ID string `json:"id"`
	} `json:"data"`
	Error string `json:"error,omitempty"`
}

// PushEnvVarsRequest uploads the assembled environment to a hosting project
type PushEnvVarsRequest struct {
	InstallationID string            `json:"installationId"`
	ProjectID      string            `json:"projectId"`
	EnvVars        map[string]string `json:"envVars"`
}

// PushEnvVarsResult is the hosting platform's answer
type PushEnvVarsResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
