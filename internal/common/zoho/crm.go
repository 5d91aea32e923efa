// internal/common/zoho/crm.go
package zoho

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"promptprofit-audit/internal/common/config"
	httpclient "promptprofit-audit/internal/common/http"

	"golang.org/x/oauth2"
)

// LeadSource tags every lead created by the audit.
const LeadSource = "PromptProfit Audit"

type CRMClient struct {
	baseURL string
	tokens  oauth2.TokenSource
	client  *httpclient.Client
}

// Lead is the subset of the Zoho Leads module the audit writes.
type Lead struct {
	ID          string `json:"id,omitempty"`
	Email       string `json:"Email"`
	LastName    string `json:"Last_Name"`
	Company     string `json:"Company,omitempty"`
	Source      string `json:"Lead_Source,omitempty"`
	Description string `json:"Description,omitempty"`
}

type recordsResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

// NewCRMClient builds a client that refreshes its access token from the
// configured self-client credentials.
func NewCRMClient(cfg config.CRMConfig) *CRMClient {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  strings.TrimRight(cfg.AccountsURL, "/") + "/oauth/v2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	// The token source outlives any single request.
	ts := oauthCfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.RefreshToken})
	return NewCRMClientWithTokenSource(cfg.BaseURL, ts, config.GetDuration(cfg.Timeout))
}

func NewCRMClientWithTokenSource(baseURL string, ts oauth2.TokenSource, timeout time.Duration) *CRMClient {
	return &CRMClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  ts,
		client:  httpclient.NewClient(timeout),
	}
}

// UpsertLead updates the first lead with the same email, or creates one.
// It returns the lead ID.
func (c *CRMClient) UpsertLead(ctx context.Context, lead *Lead) (string, error) {
	existing, err := c.SearchLeads(ctx, lead.Email)
	if err != nil {
		return "", err
	}
	if len(existing) > 0 && existing[0].ID != "" {
		id := existing[0].ID
		return id, c.UpdateLead(ctx, id, lead)
	}
	return c.CreateLead(ctx, lead)
}

func (c *CRMClient) CreateLead(ctx context.Context, lead *Lead) (string, error) {
	resp, err := c.send(ctx, http.MethodPost, c.baseURL+"/Leads", lead)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to create lead (status %d): %s", resp.StatusCode, string(body))
	}

	id, err := firstRecordID(body)
	if err != nil {
		return "", fmt.Errorf("lead creation failed: %w", err)
	}
	return id, nil
}

func (c *CRMClient) UpdateLead(ctx context.Context, leadID string, lead *Lead) error {
	resp, err := c.send(ctx, http.MethodPut, fmt.Sprintf("%s/Leads/%s", c.baseURL, url.PathEscape(leadID)), lead)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to update lead (status %d): %s", resp.StatusCode, string(body))
	}
	if _, err := firstRecordID(body); err != nil {
		return fmt.Errorf("lead update failed: %w", err)
	}
	return nil
}

// SearchLeads finds leads by email. No match is an empty result.
func (c *CRMClient) SearchLeads(ctx context.Context, email string) ([]Lead, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/Leads/search?email=%s", c.baseURL, url.QueryEscape(email))
	resp, err := c.client.SendJSON(ctx, http.MethodGet, endpoint, headers, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to search leads (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []Lead `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Data, nil
}

func (c *CRMClient) send(ctx context.Context, method, endpoint string, lead *Lead) (*http.Response, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]interface{}{"data": []Lead{*lead}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lead: %w", err)
	}

	resp, err := c.client.SendJSON(ctx, method, endpoint, headers, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}

func (c *CRMClient) authHeaders() (map[string]string, error) {
	tok, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("zoho token: %w", err)
	}
	return map[string]string{"Authorization": "Zoho-oauthtoken " + tok.AccessToken}, nil
}

func firstRecordID(body []byte) (string, error) {
	var records recordsResponse
	if err := json.Unmarshal(body, &records); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(records.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}
	if records.Data[0].Status != "success" {
		return "", fmt.Errorf("%s: %s", records.Data[0].Code, records.Data[0].Message)
	}
	return records.Data[0].Details.ID, nil
}
