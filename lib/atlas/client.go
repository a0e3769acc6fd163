// Package atlas talks to the managed-database provisioning API.
package atlas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/netpad-foundry/config"
	"github.com/netpad-foundry/dto"
)

// Client represents a managed-database provisioning client
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a provisioning client from the environment
func NewClient() *Client {
	return &Client{
		BaseURL: config.GetEnv("ATLAS_API_URL", "https://cloud.mongodb.com/api/provisioning/v1"),
		APIKey:  config.GetEnv("ATLAS_API_KEY", ""),
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ProvisionCluster creates a free-tier cluster scoped to the organization and
// project. The provider stores the generated connection string in the vault
// and only returns its reference.
func (c *Client) ProvisionCluster(ctx context.Context, request dto.ProvisionClusterRequest) (dto.ProvisionClusterResult, error) {
	var result dto.ProvisionClusterResult

	body, err := json.Marshal(request)
	if err != nil {
		return result, fmt.Errorf("failed to encode provision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/clusters", bytes.NewReader(body))
	if err != nil {
		return result, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return result, fmt.Errorf("provisioning request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return result, fmt.Errorf("failed to decode provisioning response: %w", err)
	}

	if resp.StatusCode >= 400 && result.Error == "" {
		result.Error = fmt.Sprintf("provisioning API returned status %d", resp.StatusCode)
	}

	return result, nil
}
