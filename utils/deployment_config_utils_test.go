package utils

import (
	"testing"

	"github.com/netpad-foundry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requiredNames(config models.DeploymentConfig) []string {
	names := make([]string, 0, len(config.Environment.Required))
	for _, spec := range config.Environment.Required {
		names = append(names, spec.Name)
	}
	return names
}

func optionalNames(config models.DeploymentConfig) []string {
	names := make([]string, 0, len(config.Environment.Optional))
	for _, spec := range config.Environment.Optional {
		names = append(names, spec.Name)
	}
	return names
}

func workflowWithNodes(nodeTypes ...string) models.WorkflowDefinition {
	nodes := make([]models.WorkflowNode, 0, len(nodeTypes))
	for i, nodeType := range nodeTypes {
		nodes = append(nodes, models.WorkflowNode{ID: string(rune('a' + i)), Type: nodeType})
	}
	return models.WorkflowDefinition{Name: "wf", Nodes: nodes}
}

func TestSynthesizeDeploymentConfigCore(t *testing.T) {
	config := SynthesizeDeploymentConfig("demo", nil, nil, nil)

	assert.Equal(t, "standalone", config.Mode)

	required := requiredNames(config)
	assert.Equal(t, []string{"MONGODB_URI", "SESSION_SECRET", "VAULT_ENCRYPTION_KEY", "NEXT_PUBLIC_APP_URL"}, required)

	optional := optionalNames(config)
	assert.Contains(t, optional, "MONGODB_DB")
	assert.Contains(t, optional, "APP_BASE_URL")

	// OAuth tail is always offered but never required
	assert.Contains(t, optional, "GOOGLE_CLIENT_ID")
	assert.Contains(t, optional, "GITHUB_CLIENT_SECRET")
	assert.NotContains(t, required, "GOOGLE_CLIENT_ID")

	// Secrets carry a generator, the connection string does not
	for _, spec := range config.Environment.Required {
		switch spec.Name {
		case "SESSION_SECRET", "VAULT_ENCRYPTION_KEY":
			assert.Equal(t, models.GeneratorSecret, spec.Generator)
		case "MONGODB_URI":
			assert.Empty(t, spec.Generator)
		}
	}
}

func TestSynthesizeDeploymentConfigDeterministic(t *testing.T) {
	forms := []models.FormDefinition{
		{Name: "Contact", Fields: []models.FormField{{ID: "f1", Type: "file"}}, Settings: models.FormSettings{BotProtection: true}},
	}
	workflows := []models.WorkflowDefinition{workflowWithNodes("email-send", "slack-notify")}
	connections := []models.ConnectionRef{{Name: "crm", Provider: "mongodb"}}

	first := SynthesizeDeploymentConfig("demo", forms, workflows, connections)
	second := SynthesizeDeploymentConfig("demo", forms, workflows, connections)

	assert.Equal(t, first, second)
}

func TestSynthesizeDeploymentConfigWorkflowIntegrations(t *testing.T) {
	workflows := []models.WorkflowDefinition{workflowWithNodes("email-send", "http-request")}

	config := SynthesizeDeploymentConfig("demo", nil, workflows, nil)
	required := requiredNames(config)

	for _, name := range []string{"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "FROM_EMAIL"} {
		assert.Contains(t, required, name)
	}

	// Unknown node types contribute nothing
	assert.NotContains(t, required, "SLACK_BOT_TOKEN")
	assert.NotContains(t, requiredNames(config), "OPENAI_API_KEY")

	// Without email nodes the SMTP block is absent
	bare := SynthesizeDeploymentConfig("demo", nil, nil, nil)
	assert.NotContains(t, requiredNames(bare), "SMTP_HOST")
}

func TestSynthesizeDeploymentConfigDeduplicates(t *testing.T) {
	workflows := []models.WorkflowDefinition{
		workflowWithNodes("slack-notify", "slack-notify"),
		workflowWithNodes("slack-notify"),
	}

	config := SynthesizeDeploymentConfig("demo", nil, workflows, nil)

	count := 0
	for _, spec := range config.Environment.Required {
		if spec.Name == "SLACK_BOT_TOKEN" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	count = 0
	for _, spec := range config.Environment.Optional {
		if spec.Name == "SLACK_DEFAULT_CHANNEL" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSynthesizeDeploymentConfigFormScan(t *testing.T) {
	forms := []models.FormDefinition{
		{Name: "Upload", Fields: []models.FormField{{ID: "f1", Type: "signature"}}},
		{Name: "Guarded", Fields: []models.FormField{{ID: "f2", Type: "text"}}, Settings: models.FormSettings{BotProtection: true}},
	}

	config := SynthesizeDeploymentConfig("demo", forms, nil, nil)
	required := requiredNames(config)

	assert.Contains(t, required, "BLOB_READ_WRITE_TOKEN")
	assert.Contains(t, required, "RECAPTCHA_SITE_KEY")
	assert.Contains(t, required, "RECAPTCHA_SECRET_KEY")

	plain := SynthesizeDeploymentConfig("demo", []models.FormDefinition{
		{Name: "Plain", Fields: []models.FormField{{ID: "f1", Type: "text"}}},
	}, nil, nil)
	assert.NotContains(t, requiredNames(plain), "BLOB_READ_WRITE_TOKEN")
	assert.NotContains(t, requiredNames(plain), "RECAPTCHA_SITE_KEY")
}

func TestSynthesizeDatabaseSpec(t *testing.T) {
	bare := SynthesizeDeploymentConfig("demo", nil, nil, nil)
	assert.Equal(t, []string{"forms", "form_submissions"}, bare.Database.Collections)
	assert.Equal(t, models.ProvisioningAuto, bare.Database.Provisioning)
	assert.False(t, bare.Seed.Forms)
	assert.False(t, bare.Seed.Workflows)

	full := SynthesizeDeploymentConfig("demo",
		[]models.FormDefinition{{Name: "f", Fields: []models.FormField{}}},
		[]models.WorkflowDefinition{workflowWithNodes("noop")},
		[]models.ConnectionRef{{Name: "crm", Provider: "mongodb"}},
	)
	assert.Equal(t, []string{"forms", "form_submissions", "workflows", "workflow_executions", "workflow_jobs", "connection_vault"}, full.Database.Collections)
	assert.True(t, full.Seed.Forms)
	assert.True(t, full.Seed.Workflows)

	var vaultIndex *models.IndexSpec
	for i := range full.Database.Indexes {
		if full.Database.Indexes[i].Collection == "connection_vault" {
			vaultIndex = &full.Database.Indexes[i]
		}
	}
	require.NotNil(t, vaultIndex)
	assert.True(t, vaultIndex.Unique)
}
