package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tradepost/internal/infrastructure/session"
	"tradepost/pkg/errors"
)

// Client is the shared HTTP client for all backend repositories. It
// attaches the session's bearer token and maps backend statuses onto
// the application error taxonomy so use cases never look at raw HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

func NewClient(baseURL string, timeout time.Duration, sess *session.Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
	}
}

type errorPayload struct {
	Error               string `json:"error"`
	Message             string `json:"message"`
	CooldownRemainingMs int64  `json:"cooldown_remaining_ms"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Internal("Failed to encode request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.Internal("Failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Internal("Backend unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Internal("Failed to decode response", err)
		}
		return nil
	}

	return c.mapError(resp)
}

func (c *Client) mapError(resp *http.Response) error {
	var payload errorPayload
	// Best effort; the status code alone is enough to classify.
	json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)

	message := payload.Error
	if message == "" {
		message = payload.Message
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if message == "" {
			message = "Session is no longer valid"
		}
		return errors.Unauthorized(message, nil)
	case http.StatusForbidden:
		if message == "" {
			message = "Access denied"
		}
		return errors.Forbidden(message, nil)
	case http.StatusNotFound:
		return errors.NotFound("Resource", nil)
	case http.StatusTooManyRequests:
		if message == "" {
			message = "Rate limit exceeded"
		}
		return errors.RateLimited(message, payload.CooldownRemainingMs)
	case http.StatusBadRequest:
		if message == "" {
			message = "Backend rejected the request"
		}
		return errors.BadRequest(message, nil)
	default:
		if message == "" {
			message = "Backend request failed"
		}
		return errors.Internal(message, nil)
	}
}
