package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notifier delivers operator alerts. Delivery is best-effort; callers log
// failures and move on.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Feishu posts plain-text messages to a Feishu bot webhook. A Feishu with an
// empty webhook URL is a no-op, so callers never need a nil check.
type Feishu struct {
	webhook    string
	httpClient *http.Client
}

func NewFeishu(webhook string, timeout time.Duration) *Feishu {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Feishu{
		webhook: webhook,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type feishuPayload struct {
	MsgType string        `json:"msg_type"`
	Content feishuContent `json:"content"`
}

type feishuContent struct {
	Text string `json:"text"`
}

func (f *Feishu) Notify(ctx context.Context, message string) error {
	if f.webhook == "" {
		return nil
	}

	payload, err := json.Marshal(feishuPayload{
		MsgType: "text",
		Content: feishuContent{Text: message},
	})
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.webhook, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("alert delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("alert delivery failed: %s", resp.Status)
	}
	return nil
}
