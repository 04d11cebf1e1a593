package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/medfichas/internal/models"
	"github.com/iudanet/medfichas/pkg/api"
)

// DefaultTimeout ограничивает любой удаленный вызов, чтобы чтение и запись не зависали
const DefaultTimeout = 30 * time.Second

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu          sync.RWMutex
	accessToken string
}

var _ Remote = (*Client)(nil)

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
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
	}
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

// SetAccessToken sets the bearer token sent with every request.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health запрашивает состояние сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, api.HealthPath, nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// Select получает все строки коллекции в заданном порядке
func (c *Client) Select(ctx context.Context, collection, order string) ([]models.Record, error) {
	path := collectionPath(collection)
	if order != "" {
		path += "?" + url.Values{"order": {order}}.Encode()
	}

	var rows []models.Record
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return nil, fmt.Errorf("select %s failed: %w", collection, err)
	}
	return rows, nil
}

// SelectByID получает одну строку по id
func (c *Client) SelectByID(ctx context.Context, collection, id string) (models.Record, error) {
	var row models.Record
	if err := c.doRequest(ctx, http.MethodGet, collectionPath(collection)+"/"+url.PathEscape(id), nil, &row); err != nil {
		return nil, fmt.Errorf("select %s/%s failed: %w", collection, id, err)
	}
	return row, nil
}

// Upsert вставляет или заменяет строку по id
func (c *Client) Upsert(ctx context.Context, collection string, rec models.Record) (models.Record, error) {
	if rec.ID() == "" {
		return nil, fmt.Errorf("upsert %s: record id is required", collection)
	}

	var row models.Record
	if err := c.doRequest(ctx, http.MethodPost, collectionPath(collection), rec, &row); err != nil {
		return nil, fmt.Errorf("upsert %s/%s failed: %w", collection, rec.ID(), err)
	}
	return row, nil
}

// Delete удаляет строку по id
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, collectionPath(collection)+"/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete %s/%s failed: %w", collection, id, err)
	}
	return nil
}

func collectionPath(collection string) string {
	return "/api/v1/" + url.PathEscape(collection)
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.mu.RLock()
	token := c.accessToken
	c.mu.RUnlock()
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

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newRemoteError(resp.StatusCode, respBody)
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// newRemoteError классифицирует ответ с ошибкой: сначала по коду в теле, затем по HTTP статусу
func newRemoteError(status int, body []byte) *RemoteError {
	remoteErr := &RemoteError{StatusCode: status, Kind: ErrorKindUnknown}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && (errResp.Error != "" || errResp.Code != "") {
		remoteErr.Code = errResp.Code
		remoteErr.Message = errResp.Error
		if errResp.Message != "" {
			remoteErr.Message = errResp.Error + ": " + errResp.Message
		}
	} else {
		remoteErr.Message = strings.TrimSpace(string(body))
	}

	switch {
	case remoteErr.Code == api.CodeSchemaMismatch:
		remoteErr.Kind = ErrorKindSchemaMismatch
	case remoteErr.Code == api.CodeAccessControl:
		remoteErr.Kind = ErrorKindAccessControl
	case remoteErr.Code == api.CodeNotFound, status == http.StatusNotFound:
		remoteErr.Kind = ErrorKindNotFound
	case status == http.StatusForbidden:
		remoteErr.Kind = ErrorKindAccessControl
	}

	return remoteErr
}
