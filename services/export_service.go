package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/netpad-foundry/dto"
	"github.com/netpad-foundry/models"
	"github.com/netpad-foundry/utils"
)

// ExportService turns tenant-scoped form and workflow records into portable
// bundles, and re-imports bundles into a new tenant.
type ExportService struct{}

// NewExportService creates a new export service instance
func NewExportService() *ExportService {
	return &ExportService{}
}

// ExportForm projects a live form record to its tenant-agnostic definition.
// Organization ids, access control and data-source credentials are dropped;
// everything else, including the original timestamps, passes through.
func (s *ExportService) ExportForm(form models.Form) models.FormDefinition {
	return form.FormDefinition
}

// ExportWorkflow projects a live workflow record to its definition
func (s *ExportService) ExportWorkflow(workflow models.Workflow) models.WorkflowDefinition {
	return workflow.WorkflowDefinition
}

// ExportBundle packages the supplied project records into a bundle with a
// manifest and a synthesized deployment config.
func (s *ExportService) ExportBundle(request dto.ExportBundleRequest) (models.Bundle, error) {
	now := time.Now().UTC()

	forms := make([]models.FormDefinition, 0, len(request.Forms))
	formNames := make([]string, 0, len(request.Forms))
	for _, form := range request.Forms {
		def := s.ExportForm(form)
		forms = append(forms, def)
		formNames = append(formNames, def.Name)
	}

	workflows := make([]models.WorkflowDefinition, 0, len(request.Workflows))
	workflowNames := make([]string, 0, len(request.Workflows))
	for _, workflow := range request.Workflows {
		def := s.ExportWorkflow(workflow)
		workflows = append(workflows, def)
		workflowNames = append(workflowNames, def.Name)
	}

	version := request.Version
	if version == "" {
		version = "1.0.0"
	}

	themeName := ""
	if len(request.Theme) > 0 {
		themeName = "default"
	}

	deploymentConfig := utils.SynthesizeDeploymentConfig(request.Name, forms, workflows, request.Connections)

	return models.Bundle{
		Manifest: models.BundleManifest{
			Name:        request.Name,
			Version:     version,
			Description: request.Description,
			Author:      request.Author,
			Assets: models.ManifestAssets{
				Forms:     formNames,
				Workflows: workflowNames,
				Theme:     themeName,
			},
			Tags:      request.Tags,
			Category:  request.Category,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Forms:      forms,
		Workflows:  workflows,
		Theme:      request.Theme,
		Project:    request.Project,
		Deployment: &deploymentConfig,
	}, nil
}

// ValidateFormDefinition checks the structural preconditions for import:
// required top-level keys and container types only, no field-level semantics.
func (s *ExportService) ValidateFormDefinition(def models.FormDefinition) *models.ValidationError {
	var errs []string
	if def.Name == "" {
		errs = append(errs, "form name is required")
	}
	if def.Fields == nil {
		errs = append(errs, "form fields must be an array")
	}
	if len(errs) > 0 {
		return models.NewValidationError(errs...)
	}
	return nil
}

// ValidateWorkflowDefinition checks the structural preconditions for import
func (s *ExportService) ValidateWorkflowDefinition(def models.WorkflowDefinition) *models.ValidationError {
	var errs []string
	if def.Name == "" {
		errs = append(errs, "workflow name is required")
	}
	if def.Nodes == nil {
		errs = append(errs, "workflow nodes must be an array")
	}
	if len(errs) > 0 {
		return models.NewValidationError(errs...)
	}
	return nil
}

// ImportForm produces a tenant-scoped form record from a definition. Fresh
// timestamps and tenant ids are always stamped; the identifier is regenerated
// unless suppressed, and the slug is regenerated from the name unless
// PreserveSlug is set and the definition carries one.
func (s *ExportService) ImportForm(def models.FormDefinition, organizationID, userID string, opts dto.ImportOptions) (models.Form, error) {
	if err := s.ValidateFormDefinition(def); err != nil {
		return models.Form{}, err
	}

	now := time.Now().UTC()
	form := models.Form{
		FormDefinition: def,
		OrganizationID: organizationID,
		CreatedBy:      userID,
	}
	form.CreatedAt = now
	form.UpdatedAt = now

	if opts.GenerateNewID {
		form.ID = uuid.NewString()
	}
	if !opts.PreserveSlug || def.Slug == "" {
		form.Slug = utils.GenerateSlug(def.Name)
	}

	return form, nil
}

// ImportWorkflow produces a tenant-scoped workflow record from a definition.
// Node and edge identifiers inside the graph are preserved; only the record
// identity is regenerated.
func (s *ExportService) ImportWorkflow(def models.WorkflowDefinition, organizationID, userID string, opts dto.ImportOptions) (models.Workflow, error) {
	if err := s.ValidateWorkflowDefinition(def); err != nil {
		return models.Workflow{}, err
	}

	now := time.Now().UTC()
	workflow := models.Workflow{
		WorkflowDefinition: def,
		OrganizationID:     organizationID,
		CreatedBy:          userID,
	}
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	if opts.GenerateNewID {
		workflow.ID = uuid.NewString()
	}
	if !opts.PreserveSlug || def.Slug == "" {
		workflow.Slug = utils.GenerateSlug(def.Name)
	}

	return workflow, nil
}

// ImportBundle imports every form and workflow in a bundle into the tenant
func (s *ExportService) ImportBundle(request dto.ImportBundleRequest) (dto.ImportBundleResponse, error) {
	opts := dto.ImportOptions{GenerateNewID: true}
	if request.Options != nil {
		opts = *request.Options
	}

	response := dto.ImportBundleResponse{Success: true}

	for _, def := range request.Bundle.Forms {
		form, err := s.ImportForm(def, request.OrganizationID, request.UserID, opts)
		if err != nil {
			return dto.ImportBundleResponse{}, err
		}
		response.Forms = append(response.Forms, form)
	}

	for _, def := range request.Bundle.Workflows {
		workflow, err := s.ImportWorkflow(def, request.OrganizationID, request.UserID, opts)
		if err != nil {
			return dto.ImportBundleResponse{}, err
		}
		response.Workflows = append(response.Workflows, workflow)
	}

	return response, nil
}
