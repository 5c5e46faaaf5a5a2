package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"methodquiz/internal/model"
)

// Client talks to the submission service over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// New creates a client. timeout bounds each request; maxRetries bounds the
// attempts made when the transport fails.
func New(baseURL string, timeout time.Duration, maxRetries int) *Client {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
		backoff:    500 * time.Millisecond,
	}
}

// SetToken sets the learner bearer token sent with every request
func (c *Client) SetToken(token string) {
	c.token = token
}

// SetBackoff changes the base delay between transport retries
func (c *Client) SetBackoff(d time.Duration) {
	c.backoff = d
}

// doRequest performs an HTTP request, retrying transport failures with
// exponential backoff. Any status outside 2xx is returned at once.
func (c *Client) doRequest(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	log.Printf("[Client] %s %s", method, path)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(math.Pow(2, float64(attempt-1))) * c.backoff
			log.Printf("[Client] Retry %d/%d for %s %s in %v", attempt, c.maxRetries-1, method, path, wait)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%s %s: %w", method, path, ctx.Err())
			case <-time.After(wait):
			}
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Printf("[Client] ERROR: request failed (attempt %d): %v", attempt+1, err)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			log.Printf("[Client] ERROR: %s %s returned %d", method, path, resp.StatusCode)
			return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
		}
		return respBody, nil
	}

	return nil, fmt.Errorf("%s %s: max retries exceeded: %w", method, path, lastErr)
}

// Submit posts a finished session. Every attempt carries the same ID so the
// service stores the batch once even when a retry follows a lost response.
func (c *Client) Submit(ctx context.Context, quizType string, responses []model.Response) error {
	payload, err := json.Marshal(model.SubmitRequest{
		ID:        uuid.New().String(),
		Type:      quizType,
		Responses: responses,
	})
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}
	_, err = c.doRequest(ctx, http.MethodPost, "/v1/submissions", payload)
	return err
}

// FetchRecent lists the most recent submissions for a quiz type.
func (c *Client) FetchRecent(ctx context.Context, quizType string) ([]model.Submission, error) {
	path := "/v1/submissions/recent?type=" + url.QueryEscape(quizType)
	respBody, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var recent model.RecentResponse
	if err := json.Unmarshal(respBody, &recent); err != nil {
		return nil, fmt.Errorf("failed to parse recent submissions: %w", err)
	}
	return recent.Submissions, nil
}

// IssueToken asks the service for a learner token and uses it from then on.
func (c *Client) IssueToken(ctx context.Context) (*model.TokenResponse, error) {
	respBody, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/token", []byte("{}"))
	if err != nil {
		return nil, err
	}
	var tok model.TokenResponse
	if err := json.Unmarshal(respBody, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	c.token = tok.Token
	return &tok, nil
}

// FetchStudies downloads the published study set.
func (c *Client) FetchStudies(ctx context.Context) ([]model.Study, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/v1/studies", nil)
	if err != nil {
		return nil, err
	}
	var studies []model.Study
	if err := json.Unmarshal(respBody, &studies); err != nil {
		return nil, fmt.Errorf("failed to parse studies: %w", err)
	}
	return studies, nil
}
