package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент проверки DNI во внешнем реестре (apiperu.dev)
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента проверки DNI
func NewClient(baseURL, token string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Enabled сообщает, настроен ли клиент. Без токена регистрация
// использует fallback-имя вместо подтверждённого.
func (c *Client) Enabled() bool {
	return c.token != ""
}

// VerifyDNI проверяет DNI в реестре и возвращает подтверждённое полное имя
func (c *Client) VerifyDNI(ctx context.Context, dni string) (*Person, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(verifyRequest{DNI: dni})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/dni", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Identity registry unreachable for dni=%s: %v", dni, err)
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: registry returned status %d", ErrServiceUnavailable, resp.StatusCode)
		}
		return nil, ErrDNINotFound
	}

	var parsed verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if !parsed.Success {
		return nil, ErrDNINotFound
	}

	fullName := strings.TrimSpace(fmt.Sprintf("%s %s %s",
		parsed.Data.Nombres, parsed.Data.ApellidoPaterno, parsed.Data.ApellidoMaterno))
	if fullName == "" {
		return nil, fmt.Errorf("%w: registry returned empty name", ErrInvalidResponse)
	}

	return &Person{DNI: dni, FullName: fullName}, nil
}
