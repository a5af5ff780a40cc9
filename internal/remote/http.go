package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/amgomez49/SF-desuscripcion/internal/models"
)

const (
	DefaultTimeout = 30 * time.Second
	userAgent      = "desuscripcion/1.0"
	maxResponse    = 64 << 10
)

// HTTPAction posts the payload form-encoded to an unsubscribe endpoint.
type HTTPAction struct {
	Endpoint string
	Token    string
	Client   *http.Client
}

// NewHTTPAction creates an action with its own client bounded by timeout.
func NewHTTPAction(endpoint, token string, timeout time.Duration) *HTTPAction {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPAction{
		Endpoint: endpoint,
		Token:    token,
		Client:   &http.Client{Timeout: timeout},
	}
}

type response struct {
	OK *bool  `json:"ok"`
	ID string `json:"id,omitempty"`
}

// Unsubscribe succeeds on a 2xx reply whose body is empty or a JSON object
// that does not report ok=false. 5xx replies and transport failures are errors.
func (h *HTTPAction) Unsubscribe(ctx context.Context, payload *models.Payload) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, strings.NewReader(payload.Values().Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if h.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.Token)
	}

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return false, &StatusError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, nil
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return true, nil
	}

	// Anything that is not a JSON reply, such as a proxy or captive portal
	// page, is not an acceptance.
	var decoded response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return false, nil
	}
	if decoded.OK == nil {
		return true, nil
	}
	return *decoded.OK, nil
}

// StatusError reports a server-side failure of the endpoint. Rejections
// (4xx, {"ok":false}) are not errors.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("endpoint returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
