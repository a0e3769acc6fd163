package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// EnvVars custom type for JSON storage
type EnvVars map[string]string

func (e EnvVars) Value() (driver.Value, error) {
	return json.Marshal(e)
}

func (e *EnvVars) Scan(value interface{}) error {
	if value == nil {
		*e = make(map[string]string)
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, e)
}

// DeploymentStatus is the state of a deployment in its provisioning lifecycle
type DeploymentStatus string

const (
	DeploymentStatusDraft        DeploymentStatus = "draft"
	DeploymentStatusConfiguring  DeploymentStatus = "configuring"
	DeploymentStatusProvisioning DeploymentStatus = "provisioning"
	DeploymentStatusDeploying    DeploymentStatus = "deploying"
	DeploymentStatusActive       DeploymentStatus = "active"
	DeploymentStatusFailed       DeploymentStatus = "failed"
)

var statusOrder = map[DeploymentStatus]int{
	DeploymentStatusDraft:        0,
	DeploymentStatusConfiguring:  1,
	DeploymentStatusProvisioning: 2,
	DeploymentStatusDeploying:    3,
	DeploymentStatusActive:       4,
}

// IsTerminal reports whether no further forward transition is possible
func (s DeploymentStatus) IsTerminal() bool {
	return s == DeploymentStatusActive
}

// CanTransitionTo enforces the lifecycle: transitions are monotonic forward,
// every non-terminal state may move to failed, and failed may re-enter
// configuring so a retried deploy resumes instead of restarting from draft.
func (s DeploymentStatus) CanTransitionTo(next DeploymentStatus) bool {
	if s == next {
		return true
	}
	if s == DeploymentStatusFailed {
		return next == DeploymentStatusConfiguring
	}
	if next == DeploymentStatusFailed {
		return !s.IsTerminal()
	}
	from, okFrom := statusOrder[s]
	to, okTo := statusOrder[next]
	return okFrom && okTo && to > from
}

// Deployment tracks one attempt to provision and host an application instance
// from a bundle. Mutated only by the orchestrator after creation.
type Deployment struct {
	ID             string `json:"deploymentId" gorm:"primaryKey;type:uuid"`
	ProjectID      string `json:"projectId" gorm:"type:uuid;not null;index"`
	OrganizationID string `json:"organizationId" gorm:"type:uuid;not null;index"`
	Target         string `json:"target" gorm:"default:vercel"`
	AppName        string `json:"appName" gorm:"not null"`
	Environment    string `json:"environment" gorm:"default:production"`

	Status        DeploymentStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	StatusMessage string           `json:"statusMessage" gorm:"default:null"`
	LastError     string           `json:"lastError" gorm:"default:null"`

	// Database provisioning state. ConnectionString is only set in manual
	// mode and is stored encrypted; the cleartext lives in memory only.
	DatabaseProvisioning ProvisioningMode `json:"databaseProvisioning" gorm:"type:varchar(10);default:'auto'"`
	ClusterID            string           `json:"clusterId" gorm:"default:null"`
	VaultID              string           `json:"vaultId" gorm:"default:null"`
	ConnectionString     string           `json:"-" gorm:"default:null"`
	DatabaseName         string           `json:"databaseName" gorm:"default:netpad_app"`

	EnvironmentVariables EnvVars `json:"environmentVariables" gorm:"type:jsonb;default:'{}'"`

	VercelInstallationID string `json:"vercelInstallationId" gorm:"default:null"`
	VercelProjectID      string `json:"vercelProjectId" gorm:"default:null"`

	// Optimistic concurrency guard: every write checks and increments it so
	// concurrent advance calls for the same deployment cannot race past each
	// other unnoticed.
	Version int `json:"-" gorm:"not null;default:1"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName sets the table name for Deployment model
func (Deployment) TableName() string {
	return "deployments"
}
