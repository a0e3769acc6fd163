// Package vault talks to the credential vault that stores encrypted
// connection strings, and provides the local cipher used for operator-supplied
// connection strings.
package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/netpad-foundry/config"
	"github.com/netpad-foundry/dto"
)

// Client represents a credential-vault API client
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a vault client from the environment
func NewClient() *Client {
	return &Client{
		BaseURL: config.GetEnv("VAULT_API_URL", "http://localhost:8200/v1/netpad"),
		APIKey:  config.GetEnv("VAULT_API_KEY", ""),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetDecryptedConnectionString fetches and decrypts the connection string
// stored under vaultID for the organization. Returns nil when the entry does
// not exist. The cleartext must only ever live in memory.
func (c *Client) GetDecryptedConnectionString(ctx context.Context, organizationID, vaultID string) (*dto.VaultConnection, error) {
	path := fmt.Sprintf("%s/connections/%s/%s", c.BaseURL, organizationID, vaultID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vault request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("vault returned status %d", resp.StatusCode)
	}

	var connection dto.VaultConnection
	if err := json.NewDecoder(resp.Body).Decode(&connection); err != nil {
		return nil, fmt.Errorf("failed to decode vault response: %w", err)
	}

	return &connection, nil
}
