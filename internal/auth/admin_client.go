package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// AdminClient provides access to the Clerk Backend API.
// Only used to prefill billing email when the session token does not carry one.
type AdminClient struct {
	apiURL     string
	secretKey  string
	httpClient *http.Client
}

// NewAdminClient creates a new Clerk Backend API client.
// Requires the instance secret key (CLERK_SECRET_KEY).
func NewAdminClient(apiURL, secretKey string) *AdminClient {
	return &AdminClient{
		apiURL:    apiURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// emailAddress is one entry of a Clerk user's email list
type emailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// userResponse is the subset of the Clerk user object we read
type userResponse struct {
	ID                    string         `json:"id"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	EmailAddresses        []emailAddress `json:"email_addresses"`
}

// PrimaryEmail returns the user's primary email address, falling back to
// the first address. Returns "" without error if the user has no email.
func (c *AdminClient) PrimaryEmail(ctx context.Context, userID string) (string, error) {
	if c.secretKey == "" {
		return "", nil
	}

	endpoint := fmt.Sprintf("%s/users/%s", c.apiURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("get user failed with status %d: %s", resp.StatusCode, string(body))
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("failed to decode user response: %w", err)
	}

	for _, addr := range user.EmailAddresses {
		if addr.ID == user.PrimaryEmailAddressID {
			return addr.EmailAddress, nil
		}
	}
	if len(user.EmailAddresses) > 0 {
		return user.EmailAddresses[0].EmailAddress, nil
	}
	return "", nil
}
