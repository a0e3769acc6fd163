package models

import "time"

// FormField represents a single field in a form definition
type FormField struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Label    string         `json:"label"`
	Required bool           `json:"required,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

// FormSettings holds form-level feature flags
type FormSettings struct {
	SubmitLabel   string `json:"submitLabel,omitempty"`
	BotProtection bool   `json:"botProtection,omitempty"`
	MultiPage     bool   `json:"multiPage,omitempty"`
}

// FormDefinition is the tenant-agnostic projection of a Form record.
// It never carries organization ids, access control or data-source credentials;
// the exporter is responsible for keeping it that way.
type FormDefinition struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Slug        string       `json:"slug,omitempty"`
	Fields      []FormField  `json:"fields"`
	Settings    FormSettings `json:"settings"`
	Tags        []string     `json:"tags,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// DataSource points a form at an external data backend. ConnectionString is a
// raw credential and must never leave the tenant scope.
type DataSource struct {
	Provider         string `json:"provider"`
	ConnectionString string `json:"connectionString,omitempty"`
	Database         string `json:"database,omitempty"`
	Collection       string `json:"collection,omitempty"`
}

// Form is the live, tenant-scoped record as the form builder stores it
type Form struct {
	FormDefinition
	ID             string         `json:"id"`
	OrganizationID string         `json:"organizationId"`
	CreatedBy      string         `json:"createdBy,omitempty"`
	AccessControl  map[string]any `json:"accessControl,omitempty"`
	DataSource     *DataSource    `json:"dataSource,omitempty"`
}

// WorkflowNode is a node instance in a workflow graph
type WorkflowNode struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Name      string         `json:"name,omitempty"`
	Config    map[string]any `json:"config,omitempty"`
	PositionX int            `json:"positionX,omitempty"`
	PositionY int            `json:"positionY,omitempty"`
}

// WorkflowEdge connects two nodes in a workflow graph
type WorkflowEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// WorkflowDefinition is the tenant-agnostic projection of a Workflow record
type WorkflowDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Slug        string         `json:"slug,omitempty"`
	Nodes       []WorkflowNode `json:"nodes"`
	Edges       []WorkflowEdge `json:"edges,omitempty"`
	Variables   map[string]any `json:"variables,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Workflow is the live, tenant-scoped record
type Workflow struct {
	WorkflowDefinition
	ID             string         `json:"id"`
	OrganizationID string         `json:"organizationId"`
	CreatedBy      string         `json:"createdBy,omitempty"`
	AccessControl  map[string]any `json:"accessControl,omitempty"`
}

// ConnectionRef references a stored data-source connection without its credentials
type ConnectionRef struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// ManifestAssets indexes the sub-assets a bundle carries
type ManifestAssets struct {
	Forms     []string `json:"forms"`
	Workflows []string `json:"workflows"`
	Theme     string   `json:"theme,omitempty"`
}

// BundleManifest is the bundle's self-describing content index
type BundleManifest struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description,omitempty"`
	Author      string         `json:"author,omitempty"`
	Assets      ManifestAssets `json:"assets"`
	Tags        []string       `json:"tags,omitempty"`
	Category    string         `json:"category,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// BundleProject carries optional project-level metadata inside a bundle
type BundleProject struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Settings    map[string]any `json:"settings,omitempty"`
}

// Bundle is the portable, tenant-agnostic package of a project. It is a value
// object: immutable once exported, serialized as a single JSON document.
type Bundle struct {
	Manifest   BundleManifest       `json:"manifest"`
	Forms      []FormDefinition     `json:"forms"`
	Workflows  []WorkflowDefinition `json:"workflows"`
	Theme      map[string]any       `json:"theme,omitempty"`
	Project    *BundleProject       `json:"project,omitempty"`
	Deployment *DeploymentConfig    `json:"deployment,omitempty"`
}
