package utils

import (
	"github.com/netpad-foundry/models"
)

// IntegrationEnvSpec holds the environment variables one workflow integration needs
type IntegrationEnvSpec struct {
	Required []models.EnvVarSpec
	Optional []models.EnvVarSpec
}

// GetNodeIntegrations maps workflow node types to the integrations they pull
// in. A node type missing from this table needs no environment variables.
func GetNodeIntegrations() map[string]IntegrationEnvSpec {
	return map[string]IntegrationEnvSpec{
		"email-send": {
			Required: []models.EnvVarSpec{
				{Name: "SMTP_HOST", Description: "SMTP server hostname", Required: true},
				{Name: "SMTP_PORT", Description: "SMTP server port", Required: true, Default: "587"},
				{Name: "SMTP_USER", Description: "SMTP username", Required: true},
				{Name: "SMTP_PASS", Description: "SMTP password", Required: true},
				{Name: "FROM_EMAIL", Description: "Sender address for outgoing mail", Required: true},
			},
		},
		"slack-notify": {
			Required: []models.EnvVarSpec{
				{Name: "SLACK_BOT_TOKEN", Description: "Slack bot token for channel notifications", Required: true},
			},
			Optional: []models.EnvVarSpec{
				{Name: "SLACK_DEFAULT_CHANNEL", Description: "Channel used when a node does not set one", Required: false},
			},
		},
		"google-sheets": {
			Required: []models.EnvVarSpec{
				{Name: "GOOGLE_SERVICE_ACCOUNT_KEY", Description: "Service account JSON for Sheets access", Required: true},
			},
		},
		"ai-generate": {
			Required: []models.EnvVarSpec{
				{Name: "OPENAI_API_KEY", Description: "API key for AI generation nodes", Required: true},
			},
			Optional: []models.EnvVarSpec{
				{Name: "OPENAI_MODEL", Description: "Model override for AI generation nodes", Required: false, Default: "gpt-4o-mini"},
			},
		},
	}
}

// uploadFieldTypes are form field types that store binary payloads and
// therefore need object-storage access in the deployed app
var uploadFieldTypes = map[string]bool{
	"file":      true,
	"image":     true,
	"signature": true,
}

// coreEnvVars is the fixed variable set every standalone deployment needs
func coreEnvVars() ([]models.EnvVarSpec, []models.EnvVarSpec) {
	required := []models.EnvVarSpec{
		{Name: "MONGODB_URI", Description: "Connection string of the application database", Required: true},
		{Name: "SESSION_SECRET", Description: "Signing secret for user sessions", Required: true, Generator: models.GeneratorSecret},
		{Name: "VAULT_ENCRYPTION_KEY", Description: "Key used to encrypt stored connection credentials", Required: true, Generator: models.GeneratorSecret},
		{Name: "NEXT_PUBLIC_APP_URL", Description: "Public URL of the deployed app", Required: true, Default: "${VERCEL_URL}"},
	}
	optional := []models.EnvVarSpec{
		{Name: "MONGODB_DB", Description: "Database name", Required: false, Default: "netpad_app"},
		{Name: "APP_BASE_URL", Description: "Base URL for server-side callbacks", Required: false, Default: "${VERCEL_URL}"},
	}
	return required, optional
}

// oauthEnvVars is the fixed optional tail: social login cannot be detected
// from the bundle, so the deployer can always opt in later.
func oauthEnvVars() []models.EnvVarSpec {
	return []models.EnvVarSpec{
		{Name: "GOOGLE_CLIENT_ID", Description: "Google OAuth client id", Required: false},
		{Name: "GOOGLE_CLIENT_SECRET", Description: "Google OAuth client secret", Required: false},
		{Name: "GITHUB_CLIENT_ID", Description: "GitHub OAuth client id", Required: false},
		{Name: "GITHUB_CLIENT_SECRET", Description: "GitHub OAuth client secret", Required: false},
	}
}

// envVarSet accumulates specs with first-writer-wins de-duplication by name,
// so re-synthesizing never produces conflicting duplicates.
type envVarSet struct {
	required []models.EnvVarSpec
	optional []models.EnvVarSpec
	seen     map[string]bool
}

func newEnvVarSet() *envVarSet {
	return &envVarSet{seen: make(map[string]bool)}
}

func (s *envVarSet) addRequired(specs ...models.EnvVarSpec) {
	for _, spec := range specs {
		if s.seen[spec.Name] {
			continue
		}
		s.seen[spec.Name] = true
		s.required = append(s.required, spec)
	}
}

func (s *envVarSet) addOptional(specs ...models.EnvVarSpec) {
	for _, spec := range specs {
		if s.seen[spec.Name] {
			continue
		}
		s.seen[spec.Name] = true
		s.optional = append(s.optional, spec)
	}
}

// SynthesizeDeploymentConfig derives the full deployment configuration from a
// bundle's contents. Pure function of its inputs: scanning the same forms,
// workflows and connections always yields identical required/optional arrays.
func SynthesizeDeploymentConfig(projectName string, forms []models.FormDefinition, workflows []models.WorkflowDefinition, connections []models.ConnectionRef) models.DeploymentConfig {
	set := newEnvVarSet()

	required, optional := coreEnvVars()
	set.addRequired(required...)
	set.addOptional(optional...)

	// Workflow node scan: union in every detected integration
	integrations := GetNodeIntegrations()
	for _, workflow := range workflows {
		for _, node := range workflow.Nodes {
			spec, known := integrations[node.Type]
			if !known {
				continue
			}
			set.addRequired(spec.Required...)
			set.addOptional(spec.Optional...)
		}
	}

	// Form scan: bot protection and upload field types
	for _, form := range forms {
		if form.Settings.BotProtection {
			set.addRequired(
				models.EnvVarSpec{Name: "RECAPTCHA_SITE_KEY", Description: "reCAPTCHA site key", Required: true},
				models.EnvVarSpec{Name: "RECAPTCHA_SECRET_KEY", Description: "reCAPTCHA secret key", Required: true},
			)
		}
		for _, field := range form.Fields {
			if uploadFieldTypes[field.Type] {
				set.addRequired(models.EnvVarSpec{
					Name:        "BLOB_READ_WRITE_TOKEN",
					Description: "Object storage token for uploaded files",
					Required:    true,
				})
			}
		}
	}

	set.addOptional(oauthEnvVars()...)

	return models.DeploymentConfig{
		Mode: "standalone",
		Environment: models.EnvironmentSpec{
			Required: set.required,
			Optional: set.optional,
		},
		Database: synthesizeDatabaseSpec(len(workflows) > 0, len(connections) > 0),
		Seed: models.SeedSpec{
			Forms:     len(forms) > 0,
			Workflows: len(workflows) > 0,
		},
	}
}

// synthesizeDatabaseSpec derives the target database's collections and
// indexes. Forms and submissions are always present; workflow collections and
// the connection vault only when the bundle carries those assets.
func synthesizeDatabaseSpec(hasWorkflows, hasConnections bool) models.DatabaseSpec {
	collections := []string{"forms", "form_submissions"}
	indexes := []models.IndexSpec{
		{Collection: "forms", Keys: []string{"slug"}, Unique: true},
		{Collection: "forms", Keys: []string{"projectId"}},
		{Collection: "form_submissions", Keys: []string{"formId", "createdAt"}},
		{Collection: "form_submissions", Keys: []string{"status"}},
	}

	if hasWorkflows {
		collections = append(collections, "workflows", "workflow_executions", "workflow_jobs")
		indexes = append(indexes,
			models.IndexSpec{Collection: "workflows", Keys: []string{"slug"}, Unique: true},
			models.IndexSpec{Collection: "workflow_executions", Keys: []string{"workflowId", "createdAt"}},
			models.IndexSpec{Collection: "workflow_jobs", Keys: []string{"status", "runAt"}},
		)
	}

	if hasConnections {
		collections = append(collections, "connection_vault")
		indexes = append(indexes, models.IndexSpec{Collection: "connection_vault", Keys: []string{"name"}, Unique: true})
	}

	return models.DatabaseSpec{
		Provisioning: models.ProvisioningAuto,
		Collections:  collections,
		Indexes:      indexes,
	}
}
