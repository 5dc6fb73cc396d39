package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nteract/mythic-rtc/pkg/api"
)

const defaultSubscriptionBuffer = 64

// Client реализует Gateway поверх HTTP (сессии, операции) и websocket (подписки)
type Client struct {
	httpClient *http.Client
	dialer     *websocket.Dialer
	logger     *slog.Logger
	baseURL    string
	token      string
	bufferSize int
	mu         sync.RWMutex
}

var _ Gateway = (*Client)(nil)

// Option настраивает Client
type Option func(*Client)

// WithSubscriptionBuffer задает размер буфера событий одной подписки
func WithSubscriptionBuffer(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// WithHTTPClient подменяет HTTP клиент
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient создает новый API клиент
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
		bufferSize: defaultSubscriptionBuffer,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start открывает сессию для ноутбука resourcePath и сохраняет токен сессии
func (c *Client) Start(ctx context.Context, resourcePath string) error {
	var resp api.SessionResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/sessions", "", api.SessionRequest{FilePath: resourcePath}, &resp)
	if err != nil {
		return fmt.Errorf("start session failed: %w", err)
	}

	c.mu.Lock()
	c.token = resp.SessionToken
	c.mu.Unlock()

	c.logger.Debug("Gateway session started", "file_path", resourcePath, "expires_in", resp.ExpiresIn)
	return nil
}

// Execute выполняет query или mutation
func (c *Client) Execute(ctx context.Context, op api.Operation, variables any, result any) error {
	token, err := c.sessionToken()
	if err != nil {
		return err
	}

	vars, err := json.Marshal(variables)
	if err != nil {
		return fmt.Errorf("failed to marshal %s variables: %w", op, err)
	}

	var res api.Result
	req := api.ExecuteRequest{Operation: op, Variables: vars}
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/execute", token, req, &res); err != nil {
		return fmt.Errorf("%s request failed: %w", op, err)
	}

	if res.HasErrors() {
		return &ExecuteError{Operation: op, Errors: res.Errors}
	}

	if result != nil {
		if len(res.Data) == 0 {
			return fmt.Errorf("%s: %w", op, ErrEmptyData)
		}
		if err := json.Unmarshal(res.Data, result); err != nil {
			return fmt.Errorf("failed to decode %s data: %w", op, err)
		}
	}

	return nil
}

// Subscribe открывает websocket и отправляет запрос подписки первым сообщением
func (c *Client) Subscribe(ctx context.Context, op api.Operation, variables any) (Subscription, error) {
	token, err := c.sessionToken()
	if err != nil {
		return nil, err
	}

	vars, err := json.Marshal(variables)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s variables: %w", op, err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := c.dialer.DialContext(ctx, c.websocketURL("/api/v1/subscribe"), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("subscribe %s failed with status %d: %w", op, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("subscribe %s failed: %w", op, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err := conn.WriteJSON(api.SubscribeRequest{Operation: op, Variables: vars}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to send %s subscription request: %w", op, err)
	}

	sub := newWSSubscription(conn, op, c.bufferSize, c.logger)
	go sub.readLoop(ctx)

	return sub, nil
}

func (c *Client) sessionToken() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return "", ErrNotStarted
	}
	return c.token, nil
}

func (c *Client) websocketURL(path string) string {
	u := c.baseURL + path
	switch {
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
