package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-event-reservation/internal/model"
)

// Client 行事曆協作方的 webhook 客戶端
// 同步是盡力而為：這裡回傳的錯誤只用於隊列重試，永遠不影響預約狀態
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Enabled 未設定 webhook 位址時同步整體停用
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

func (c *Client) AddEvent(ctx context.Context, msg *model.CalendarSyncMessage) error {
	if !c.Enabled() {
		return nil
	}
	return c.post(ctx, "/calendar/events", msg)
}

func (c *Client) RemoveEvent(ctx context.Context, msg *model.CalendarSyncMessage) error {
	if !c.Enabled() {
		return nil
	}
	return c.post(ctx, "/calendar/events/remove", msg)
}

func (c *Client) post(ctx context.Context, path string, msg *model.CalendarSyncMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal calendar payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("calendar sync returned status %d", resp.StatusCode)
	}
	return nil
}
