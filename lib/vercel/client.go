// Package vercel talks to the hosting-platform API.
package vercel

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

// Client represents a hosting-platform API client
type Client struct {
	BaseURL    string
	APIToken   string
	HTTPClient *http.Client
}

// NewClient creates a hosting client from the environment
func NewClient() *Client {
	return &Client{
		BaseURL:  config.GetEnv("VERCEL_API_URL", "https://api.vercel.com"),
		APIToken: config.GetEnv("VERCEL_API_TOKEN", ""),
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var reader *bytes.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("hosting request failed: %w", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode hosting response: %w", err)
		}
	}

	return nil
}

// CreateProject creates a hosting project under the given installation
func (c *Client) CreateProject(ctx context.Context, request dto.CreateHostingProjectRequest) (dto.CreateHostingProjectResult, error) {
	var result dto.CreateHostingProjectResult
	path := fmt.Sprintf("/v10/projects?installationId=%s", request.InstallationID)
	payload := map[string]string{
		"name":      request.Name,
		"framework": request.Framework,
	}
	if err := c.do(ctx, http.MethodPost, path, payload, &result); err != nil {
		return result, err
	}
	return result, nil
}

// PushEnvironmentVariables uploads the assembled environment map to a project
func (c *Client) PushEnvironmentVariables(ctx context.Context, request dto.PushEnvVarsRequest) (dto.PushEnvVarsResult, error) {
	var result dto.PushEnvVarsResult

	type envEntry struct {
		Key    string   `json:"key"`
		Value  string   `json:"value"`
		Type   string   `json:"type"`
		Target []string `json:"target"`
	}
	entries := make([]envEntry, 0, len(request.EnvVars))
	for key, value := range request.EnvVars {
		entries = append(entries, envEntry{
			Key:    key,
			Value:  value,
			Type:   "encrypted",
			Target: []string{"production", "preview"},
		})
	}

	path := fmt.Sprintf("/v10/projects/%s/env?installationId=%s", request.ProjectID, request.InstallationID)
	if err := c.do(ctx, http.MethodPost, path, entries, &result); err != nil {
		return result, err
	}
	return result, nil
}

// GetDeploymentState fetches the latest deployment state for a project.
// Returns one of "building", "ready" or "error".
func (c *Client) GetDeploymentState(ctx context.Context, installationID, projectID string) (string, error) {
	var result struct {
		Deployments []struct {
			State string `json:"state"`
		} `json:"deployments"`
	}
	path := fmt.Sprintf("/v6/deployments?projectId=%s&installationId=%s&limit=1", projectID, installationID)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return "", err
	}
	if len(result.Deployments) == 0 {
		return "building", nil
	}

	switch result.Deployments[0].State {
	case "READY":
		return "ready", nil
	case "ERROR", "CANCELED":
		return "error", nil
	default:
		return "building", nil
	}
}
