package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Client posts JSON payloads to an automation webhook (n8n). Delivery is
// at-most-once: Notify never blocks the caller and failures are logged,
// never surfaced or retried.
type Client struct {
	url    string
	client *http.Client
}

func NewClient(url string) *Client {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Notify fires the payload in the background. A nil client is a no-op so
// callers never need to check whether the webhook is configured.
func (c *Client) Notify(payload any) {
	if c == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.Send(ctx, payload); err != nil {
			log.Printf("automation webhook error: %v", err)
		}
	}()
}

// Send delivers the payload synchronously. Notify is the normal entry
// point; Send exists for tests and shutdown-sensitive callers.
func (c *Client) Send(ctx context.Context, payload any) error {
	if c == nil {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	return fmt.Errorf("webhook call failed status=%d body=%s", res.StatusCode, strings.TrimSpace(string(respBody)))
}

// ErrorReporter posts handler failures to a separate error webhook.
type ErrorReporter struct {
	client *Client
}

func NewErrorReporter(url string) *ErrorReporter {
	return &ErrorReporter{client: NewClient(url)}
}

type errorReport struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Report is fire-and-forget like Notify; a reporter with no configured
// URL swallows everything.
func (r *ErrorReporter) Report(path, message string) {
	if r == nil {
		return
	}
	r.client.Notify(errorReport{Path: path, Message: message})
}
