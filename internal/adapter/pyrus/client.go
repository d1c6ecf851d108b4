package pyrus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	porttasksource "github.com/alanyang/shift-router/internal/port/tasksource"
)

var _ porttasksource.Source = (*Client)(nil)

// Config describes the Pyrus form the tasks live on and where the responsible
// technologist is kept inside a task.
type Config struct {
	BaseURL     string
	AuthURL     string
	Login       string
	SecurityKey string
	AccessToken string

	FormID int
	Step   int

	// OwnerFieldID is the catalog/person field written on reassignment.
	OwnerFieldID int
	// OwnerFieldName is the field read back as the current owner.
	OwnerFieldName string
	// NestedPath names the chain of nested form fields searched when the owner is not
	// a top-level field.
	NestedPath []string

	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://api.pyrus.com/v4",
		AuthURL:        "https://api.pyrus.com/v4/auth",
		FormID:         607869,
		Step:           4,
		OwnerFieldID:   106,
		OwnerFieldName: "Ответственный технолог",
		NestedPath: []string{
			"Создание запроса Специалистом КС",
			"Тип запроса",
			"Обработка запроса Технологом",
		},
		Timeout: 30 * time.Second,
	}
}

// Client is a thin Pyrus v4 REST client. It does not retry: a 401 surfaces as
// tasksource.ErrUnauthorized and the caller decides whether to refresh.
type Client struct {
	cfg    Config
	tokens *tokenStore
	api    *http.Client
	auth   *http.Client
}

func NewClient(cfg Config) *Client {
	tokens := &tokenStore{}
	tokens.set(cfg.AccessToken)
	return &Client{
		cfg:    cfg,
		tokens: tokens,
		api: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &oauth2.Transport{Source: tokens, Base: http.DefaultTransport},
		},
		auth: &http.Client{Timeout: cfg.Timeout},
	}
}

type registerResponse struct {
	Tasks []struct {
		ID int64 `json:"id"`
	} `json:"tasks"`
}

func (c *Client) ListOpenTasks(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/forms/%d/register?steps=%d", c.cfg.BaseURL, c.cfg.FormID, c.cfg.Step)

	var resp registerResponse
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("list form %d register: %w", c.cfg.FormID, err)
	}

	ids := make([]string, 0, len(resp.Tasks))
	for _, t := range resp.Tasks {
		ids = append(ids, strconv.FormatInt(t.ID, 10))
	}
	return ids, nil
}

type field struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

type taskResponse struct {
	Task struct {
		Fields []field `json:"fields"`
	} `json:"task"`
}

func (c *Client) CurrentOwner(ctx context.Context, taskID string) (string, bool, error) {
	url := fmt.Sprintf("%s/tasks/%s", c.cfg.BaseURL, taskID)

	var resp taskResponse
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return "", false, fmt.Errorf("get task %s: %w", taskID, err)
	}

	email := c.findOwner(resp.Task.Fields)
	return email, email != "", nil
}

type fieldUpdate struct {
	ID    int               `json:"id"`
	Value map[string]string `json:"value"`
}

func (c *Client) SetOwner(ctx context.Context, taskID, email string) error {
	url := fmt.Sprintf("%s/tasks/%s/comments", c.cfg.BaseURL, taskID)
	body := map[string][]fieldUpdate{
		"field_updates": {{ID: c.cfg.OwnerFieldID, Value: map[string]string{"email": email}}},
	}
	if err := c.do(ctx, http.MethodPost, url, body, nil); err != nil {
		return fmt.Errorf("set owner of task %s: %w", taskID, err)
	}
	return nil
}

// RefreshCredentials exchanges login + security key for a new access token.
func (c *Client) RefreshCredentials(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{
		"login":        c.cfg.Login,
		"security_key": c.cfg.SecurityKey,
	})
	if err != nil {
		return fmt.Errorf("marshaling auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.auth.Do(req)
	if err != nil {
		return fmt.Errorf("requesting access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("requesting access token: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decoding auth response: %w", err)
	}
	if out.AccessToken == "" {
		return errors.New("auth response carried no access_token")
	}
	c.tokens.set(out.AccessToken)
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.api.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return porttasksource.ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// findOwner looks for the owner field at the top level first, then down NestedPath.
func (c *Client) findOwner(fields []field) string {
	if f, ok := byName(fields, c.cfg.OwnerFieldName); ok {
		return personEmail(f.Value)
	}

	current := fields
	for _, name := range c.cfg.NestedPath {
		f, ok := byName(current, name)
		if !ok {
			return ""
		}
		var nested struct {
			Fields []field `json:"fields"`
		}
		if err := json.Unmarshal(f.Value, &nested); err != nil {
			return ""
		}
		current = nested.Fields
	}

	if f, ok := byName(current, c.cfg.OwnerFieldName); ok {
		return personEmail(f.Value)
	}
	return ""
}

func byName(fields []field, name string) (field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return field{}, false
}

// personEmail returns "" for empty values and for anything that is not a person object.
func personEmail(raw json.RawMessage) string {
	var p struct {
		Email string `json:"email"`
	}
	if len(raw) == 0 || raw[0] != '{' {
		return ""
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return ""
	}
	return p.Email
}

// tokenStore is an oauth2.TokenSource whose token is replaced by RefreshCredentials.
type tokenStore struct {
	mu    sync.RWMutex
	token string
}

func (s *tokenStore) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}

func (s *tokenStore) set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}
