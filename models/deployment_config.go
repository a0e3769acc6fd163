package models

// EnvVarGenerator says how a variable's value is produced at deploy time
type EnvVarGenerator string

const (
	GeneratorNone   EnvVarGenerator = "none"
	GeneratorSecret EnvVarGenerator = "secret"
	GeneratorUUID   EnvVarGenerator = "uuid"
)

// EnvVarSpec describes one environment variable a deployed app needs.
// Variables with Generator = secret are produced fresh at deploy time and are
// never sourced from the bundle itself.
type EnvVarSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Required    bool            `json:"required"`
	Default     string          `json:"default,omitempty"`
	Generator   EnvVarGenerator `json:"generator,omitempty"`
}

// EnvironmentSpec splits the variable set by necessity
type EnvironmentSpec struct {
	Required []EnvVarSpec `json:"required"`
	Optional []EnvVarSpec `json:"optional"`
}

// ProvisioningMode says where the target database comes from
type ProvisioningMode string

const (
	ProvisioningAuto     ProvisioningMode = "auto"     // provision a fresh cluster
	ProvisioningManual   ProvisioningMode = "manual"   // operator supplies a connection string
	ProvisioningExisting ProvisioningMode = "existing" // reuse a vault-stored connection
)

// IndexSpec describes one index the target database needs
type IndexSpec struct {
	Collection string   `json:"collection"`
	Keys       []string `json:"keys"`
	Unique     bool     `json:"unique,omitempty"`
}

// DatabaseSpec describes the target database requirements
type DatabaseSpec struct {
	Provisioning ProvisioningMode `json:"provisioning"`
	Collections  []string         `json:"collections"`
	Indexes      []IndexSpec      `json:"indexes"`
}

// SeedSpec says which bundle contents are seeded into the new database
type SeedSpec struct {
	Forms      bool `json:"forms"`
	Workflows  bool `json:"workflows"`
	SampleData bool `json:"sampleData"`
}

// DeploymentConfig is the synthesized description of everything a bundle
// needs from its hosting environment
type DeploymentConfig struct {
	Mode        string          `json:"mode"` // standalone or connected
	Environment EnvironmentSpec `json:"environment"`
	Database    DatabaseSpec    `json:"database"`
	Seed        SeedSpec        `json:"seed"`
	Branding    map[string]any  `json:"branding,omitempty"`
}
