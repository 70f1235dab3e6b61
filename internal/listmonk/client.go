package listmonk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"listmonk-resubscriber/internal/models"
)

// ErrSubscriberNotFound is returned when a lookup yields no results.
var ErrSubscriberNotFound = errors.New("subscriber not found")

// APIError is returned for any non-2xx response from the service.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// HTTPDoer is the interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the mailing-list service's REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPDoer
	limiter    *rate.Limiter
}

// NewClient creates a client for baseURL. requestsPerSecond <= 0 disables pacing.
func NewClient(baseURL, token string, requestsPerSecond float64) *Client {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing)
func (c *Client) SetHTTPClient(client HTTPDoer) {
	c.httpClient = client
}

type subscriberQueryResponse struct {
	Data *struct {
		Results *[]models.Subscriber `json:"results"`
	} `json:"data"`
}

// GetSubscriberByEmail looks up a subscriber by exact email match and returns
// the first result with its list memberships.
func (c *Client) GetSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	params := url.Values{}
	params.Set("subscribers.email", "'"+email+"'")

	body, err := c.do(ctx, http.MethodGet, "/subscribers?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp subscriberQueryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse subscriber response: %w", err)
	}
	if resp.Data == nil || resp.Data.Results == nil {
		return nil, errors.New("failed to parse subscriber response: missing data.results")
	}
	results := *resp.Data.Results
	if len(results) == 0 {
		return nil, ErrSubscriberNotFound
	}
	return &results[0], nil
}

// ListAction is the action of a bulk list update.
type ListAction string

const ActionAdd ListAction = "add"

// ListUpdate is the body of PUT /subscribers/lists.
type ListUpdate struct {
	IDs           []int                     `json:"ids"`
	TargetListIDs []int                     `json:"target_list_ids"`
	Action        ListAction                `json:"action"`
	Status        models.SubscriptionStatus `json:"status"`
}

// UpdateSubscriberLists applies a bulk list membership change.
func (c *Client) UpdateSubscriberLists(ctx context.Context, update ListUpdate) error {
	_, err := c.do(ctx, http.MethodPut, "/subscribers/lists", update)
	return err
}

// do performs an authenticated request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(respBody)}
	}
	return respBody, nil
}
