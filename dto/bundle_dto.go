package dto

import "github.com/netpad-foundry/models"

// ExportBundleRequest carries the project records to package. The form and
// workflow records come in tenant-scoped as stored; the exporter strips them.
type ExportBundleRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Version     string                 `json:"version"`
	Description string                 `json:"description"`
	Author      string                 `json:"author"`
	Category    string                 `json:"category"`
	Tags        []string               `json:"tags"`
	Project     *models.BundleProject  `json:"project"`
	Theme       map[string]any         `json:"theme"`
	Forms       []models.Form          `json:"forms"`
	Workflows   []models.Workflow      `json:"workflows"`
	Connections []models.ConnectionRef `json:"connections"`
}

// ImportOptions control identifier and slug handling on import
type ImportOptions struct {
	GenerateNewID bool `json:"generateNewId"`
	PreserveSlug  bool `json:"preserveSlug"`
}

// ImportBundleRequest re-imports a bundle into a tenant
type ImportBundleRequest struct {
	Bundle         models.Bundle  `json:"bundle" binding:"required"`
	OrganizationID string         `json:"organizationId" binding:"required"`
	UserID         string         `json:"userId" binding:"required"`
	Options        *ImportOptions `json:"options"`
}

// ImportBundleResponse returns the tenant-scoped records ready for insertion
type ImportBundleResponse struct {
	Success   bool              `json:"success"`
	Forms     []models.Form     `json:"forms"`
	Workflows []models.Workflow `json:"workflows"`
}

// InjectBundleResponse reports a successful bundle injection
type InjectBundleResponse struct {
	Success    bool          `json:"success"`
	BundlePath string        `json:"bundlePath"`
	Bundle     BundleSummary `json:"bundle"`
}

// BundleSummary is the short description of an injected bundle
type BundleSummary struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	FormsCount     int    `json:"formsCount"`
	WorkflowsCount int    `json:"workflowsCount"`
}

// BundleStatusResponse reports whether a bundle has been injected already
type BundleStatusResponse struct {
	Injected   bool           `json:"injected"`
	BundlePath string         `json:"bundlePath,omitempty"`
	Bundle     *BundleSummary `json:"bundle,omitempty"`
}
