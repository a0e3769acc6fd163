package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/netpad-foundry/dto"
	"github.com/netpad-foundry/models"
)

// bundleRelPath is where the deployable template expects its bundle
const bundleRelPath = "data/netpad-bundle.json"

// BundleService validates bundles and injects them into a deployable
// application template on disk.
type BundleService struct{}

// NewBundleService creates a new bundle service instance
func NewBundleService() *BundleService {
	return &BundleService{}
}

// ValidateBundle checks a bundle for internal consistency: manifest presence,
// manifest assets matching the actual arrays, and well-formed env-var specs.
// Returns the list of problems, empty when the bundle is valid.
func (s *BundleService) ValidateBundle(bundle models.Bundle) []string {
	var errs []string

	if bundle.Manifest.Name == "" {
		errs = append(errs, "manifest.name is required")
	}
	if bundle.Manifest.Version == "" {
		errs = append(errs, "manifest.version is required")
	}

	if len(bundle.Manifest.Assets.Forms) > len(bundle.Forms) {
		errs = append(errs, fmt.Sprintf("manifest.assets.forms lists %d entries but bundle has %d forms",
			len(bundle.Manifest.Assets.Forms), len(bundle.Forms)))
	}
	if len(bundle.Manifest.Assets.Workflows) > len(bundle.Workflows) {
		errs = append(errs, fmt.Sprintf("manifest.assets.workflows lists %d entries but bundle has %d workflows",
			len(bundle.Manifest.Assets.Workflows), len(bundle.Workflows)))
	}

	if bundle.Deployment != nil {
		seen := make(map[string]bool)
		specs := append([]models.EnvVarSpec{}, bundle.Deployment.Environment.Required...)
		specs = append(specs, bundle.Deployment.Environment.Optional...)
		for _, spec := range specs {
			if spec.Name == "" {
				errs = append(errs, "deployment env var spec with empty name")
				continue
			}
			if seen[spec.Name] {
				errs = append(errs, fmt.Sprintf("duplicate deployment env var spec: %s", spec.Name))
			}
			seen[spec.Name] = true

			switch spec.Generator {
			case "", models.GeneratorNone, models.GeneratorSecret, models.GeneratorUUID:
			default:
				errs = append(errs, fmt.Sprintf("unknown generator %q for env var %s", spec.Generator, spec.Name))
			}
		}
	}

	return errs
}

// InjectBundle serializes a validated bundle into the template at
// templatePath and returns the bundle file path. The write is atomic
// (temp file + rename), so a failed injection never leaves a partial bundle,
// and re-running with a newer bundle simply overwrites the previous one.
func (s *BundleService) InjectBundle(templatePath string, bundle models.Bundle) (string, error) {
	if errs := s.ValidateBundle(bundle); len(errs) > 0 {
		return "", models.NewValidationError(errs...)
	}

	bundlePath := filepath.Join(templatePath, filepath.FromSlash(bundleRelPath))
	if err := os.MkdirAll(filepath.Dir(bundlePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create bundle directory: %w", err)
	}

	// Human-readable and diffable by design
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize bundle: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(bundlePath), ".netpad-bundle-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp bundle file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write bundle: %w", err)
	}

	if err := os.Rename(tmpName, bundlePath); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to move bundle into template: %w", err)
	}

	return bundlePath, nil
}

// BundleStatus reports whether a bundle has been injected into the template,
// without re-validating it.
func (s *BundleService) BundleStatus(templatePath string) (dto.BundleStatusResponse, error) {
	bundlePath := filepath.Join(templatePath, filepath.FromSlash(bundleRelPath))

	data, err := os.ReadFile(bundlePath)
	if os.IsNotExist(err) {
		return dto.BundleStatusResponse{Injected: false}, nil
	}
	if err != nil {
		return dto.BundleStatusResponse{}, err
	}

	var bundle models.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return dto.BundleStatusResponse{}, fmt.Errorf("injected bundle is unreadable: %w", err)
	}

	return dto.BundleStatusResponse{
		Injected:   true,
		BundlePath: bundlePath,
		Bundle: &dto.BundleSummary{
			Name:           bundle.Manifest.Name,
			Version:        bundle.Manifest.Version,
			FormsCount:     len(bundle.Forms),
			WorkflowsCount: len(bundle.Workflows),
		},
	}, nil
}
