package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/netpad-foundry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBundle() models.Bundle {
	return models.Bundle{
		Manifest: models.BundleManifest{
			Name:    "Support Portal",
			Version: "1.0.0",
			Assets: models.ManifestAssets{
				Forms: []string{"Contact Us"},
			},
		},
		Forms: []models.FormDefinition{
			{Name: "Contact Us", Fields: []models.FormField{{ID: "f1", Type: "text"}}},
		},
		Workflows: []models.WorkflowDefinition{},
	}
}

func TestValidateBundle(t *testing.T) {
	svc := NewBundleService()

	assert.Empty(t, svc.ValidateBundle(validBundle()))

	t.Run("missing manifest fields", func(t *testing.T) {
		bundle := validBundle()
		bundle.Manifest.Name = ""
		bundle.Manifest.Version = ""
		errs := svc.ValidateBundle(bundle)
		assert.Contains(t, errs, "manifest.name is required")
		assert.Contains(t, errs, "manifest.version is required")
	})

	t.Run("manifest lists more assets than bundle carries", func(t *testing.T) {
		bundle := validBundle()
		bundle.Manifest.Assets.Forms = []string{"Contact Us", "Phantom"}
		errs := svc.ValidateBundle(bundle)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "manifest.assets.forms")
	})

	t.Run("duplicate env var spec", func(t *testing.T) {
		bundle := validBundle()
		bundle.Deployment = &models.DeploymentConfig{
			Environment: models.EnvironmentSpec{
				Required: []models.EnvVarSpec{{Name: "SMTP_HOST", Required: true}},
				Optional: []models.EnvVarSpec{{Name: "SMTP_HOST"}},
			},
		}
		errs := svc.ValidateBundle(bundle)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "duplicate deployment env var spec: SMTP_HOST")
	})

	t.Run("unknown generator", func(t *testing.T) {
		bundle := validBundle()
		bundle.Deployment = &models.DeploymentConfig{
			Environment: models.EnvironmentSpec{
				Required: []models.EnvVarSpec{{Name: "TOKEN", Generator: "lottery"}},
			},
		}
		errs := svc.ValidateBundle(bundle)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], `unknown generator "lottery"`)
	})
}

func TestInjectBundle(t *testing.T) {
	svc := NewBundleService()
	templatePath := t.TempDir()

	bundlePath, err := svc.InjectBundle(templatePath, validBundle())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(templatePath, "data", "netpad-bundle.json"), bundlePath)

	data, err := os.ReadFile(bundlePath)
	require.NoError(t, err)

	var written models.Bundle
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, "Support Portal", written.Manifest.Name)
	require.Len(t, written.Forms, 1)
	assert.Equal(t, "Contact Us", written.Forms[0].Name)
}

func TestInjectBundleOverwrites(t *testing.T) {
	svc := NewBundleService()
	templatePath := t.TempDir()

	_, err := svc.InjectBundle(templatePath, validBundle())
	require.NoError(t, err)

	updated := validBundle()
	updated.Manifest.Version = "2.0.0"
	bundlePath, err := svc.InjectBundle(templatePath, updated)
	require.NoError(t, err)

	data, err := os.ReadFile(bundlePath)
	require.NoError(t, err)

	var written models.Bundle
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, "2.0.0", written.Manifest.Version)

	// The atomic write must not leave temp files behind
	entries, err := os.ReadDir(filepath.Dir(bundlePath))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestInjectBundleRejectsInvalid(t *testing.T) {
	svc := NewBundleService()
	templatePath := t.TempDir()

	bundle := validBundle()
	bundle.Manifest.Name = ""

	_, err := svc.InjectBundle(templatePath, bundle)
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)

	// No partial bundle is ever written
	_, statErr := os.Stat(filepath.Join(templatePath, "data", "netpad-bundle.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBundleStatus(t *testing.T) {
	svc := NewBundleService()
	templatePath := t.TempDir()

	status, err := svc.BundleStatus(templatePath)
	require.NoError(t, err)
	assert.False(t, status.Injected)
	assert.Nil(t, status.Bundle)

	_, err = svc.InjectBundle(templatePath, validBundle())
	require.NoError(t, err)

	status, err = svc.BundleStatus(templatePath)
	require.NoError(t, err)
	assert.True(t, status.Injected)
	require.NotNil(t, status.Bundle)
	assert.Equal(t, "Support Portal", status.Bundle.Name)
	assert.Equal(t, "1.0.0", status.Bundle.Version)
	assert.Equal(t, 1, status.Bundle.FormsCount)
	assert.Equal(t, 0, status.Bundle.WorkflowsCount)
}
