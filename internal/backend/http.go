package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// HTTPInvoker forwards invoke calls to a backend bridge listening on HTTP.
// Every command is a POST to <base>/invoke with a {"command","args"} body.
type HTTPInvoker struct {
	baseURL    string
	httpClient *http.Client
}

type invokeRequest struct {
	Command string         `json:"command"`
	Args    map[string]any `json:"args,omitempty"`
}

type invokeResponse struct {
	Data  json.RawMessage `json:"data"`
	Error *string         `json:"error,omitempty"`
}

// NewHTTPInvoker creates an invoker for the bridge at baseURL
func NewHTTPInvoker(baseURL string, timeout time.Duration) *HTTPInvoker {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPInvoker{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the bridge address without a trailing slash
func (h *HTTPInvoker) BaseURL() string {
	return h.baseURL
}

// Invoke sends command to the bridge and decodes the data payload into out
func (h *HTTPInvoker) Invoke(ctx context.Context, command string, args map[string]any, out any) error {
	data, err := json.Marshal(invokeRequest{Command: command, Args: args})
	if err != nil {
		return fmt.Errorf("marshal %s args: %w", command, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/invoke", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", command, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", command, err)
	}

	var envelope invokeResponse
	decodeErr := json.Unmarshal(body, &envelope)

	if resp.StatusCode >= 400 {
		msg := strings.TrimSpace(string(body))
		if decodeErr == nil && envelope.Error != nil {
			msg = *envelope.Error
		}
		return &Error{Command: command, Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("%s: decode response: %w", command, decodeErr)
	}
	if envelope.Error != nil {
		return &Error{Command: command, Message: *envelope.Error}
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", command, err)
	}
	return nil
}
