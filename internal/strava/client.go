package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/sstent/stravaweather/internal/retry"
)

const (
	defaultBaseURL  = "https://www.strava.com/api/v3"
	defaultTokenURL = "https://www.strava.com/oauth/token"

	// Listing pages are retried on server errors only.
	listRetryAttempts = 3
	listRetryBase     = 1 * time.Second
)

// APIError is a non-2xx response from the Strava API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("strava API status %d: %s", e.Status, e.Body)
}

// AuthError is a failed token refresh. There is no point retrying or
// continuing the run without a bearer token.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("strava token refresh failed with status %d", e.Status)
}

// IsServerError reports whether err is an APIError with a 5xx status.
func IsServerError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 500
}

// Client is a Strava API client holding the bearer token for one run
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokenURL   string

	accessToken string

	// timer overrides the retry backoff timer in tests
	timer backoff.Timer
}

// NewClient creates a Strava client. The bearer token is empty until
// Authenticate succeeds.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		tokenURL:   defaultTokenURL,
	}
}

// Authenticate exchanges the refresh token for a short-lived access
// token. Credentials are never logged; on failure the response status
// and body are, since Strava returns a structured error payload there.
func (c *Client) Authenticate(ctx context.Context, clientID, clientSecret, refreshToken string) error {
	form := url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		slog.Error("Token refresh rejected", "status", resp.StatusCode, "response", string(body))
		return &AuthError{Status: resp.StatusCode}
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return fmt.Errorf("token response missing access_token")
	}

	c.accessToken = tokenResp.AccessToken
	return nil
}

// ListActivities pages through the athlete's activities (most recent
// first, 1-indexed pages) until a page comes back empty or max
// activities have been accumulated. Each page request is retried on 5xx
// responses only; any other error aborts the listing.
func (c *Client) ListActivities(ctx context.Context, max, perPage int) ([]Activity, error) {
	var activities []Activity

	for page := 1; ; page++ {
		var batch []Activity
		err := retry.DoWithTimer(ctx, listRetryAttempts, listRetryBase, IsServerError, func() error {
			var err error
			batch, err = c.listPage(ctx, page, perPage)
			return err
		}, c.timer)
		if err != nil {
			return nil, fmt.Errorf("listing activities page %d: %w", page, err)
		}

		if len(batch) == 0 {
			break
		}

		activities = append(activities, batch...)
		if len(activities) >= max {
			activities = activities[:max]
			break
		}
	}

	return activities, nil
}

func (c *Client) listPage(ctx context.Context, page, perPage int) ([]Activity, error) {
	u := fmt.Sprintf("%s/athlete/activities?per_page=%d&page=%d", c.baseURL, perPage, page)
	var batch []Activity
	if err := c.getJSON(ctx, u, &batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// GetActivity fetches the full activity object. The list response lacks
// the description and sometimes the start coordinates.
func (c *Client) GetActivity(ctx context.Context, id int64) (*Activity, error) {
	u := fmt.Sprintf("%s/activities/%d", c.baseURL, id)
	var activity Activity
	if err := c.getJSON(ctx, u, &activity); err != nil {
		return nil, fmt.Errorf("fetching activity %d: %w", id, err)
	}
	return &activity, nil
}

// UpdateDescription replaces the activity's description field.
func (c *Client) UpdateDescription(ctx context.Context, id int64, description string) error {
	form := url.Values{"description": {description}}
	u := fmt.Sprintf("%s/activities/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("updating activity %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("updating activity %d: %w", id, &APIError{Status: resp.StatusCode, Body: string(body)})
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
