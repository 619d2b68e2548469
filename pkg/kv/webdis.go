package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// WebdisStore implements Store over a Webdis HTTP proxy
// (https://github.com/nicolasff/webdis). Commands are encoded in the URL
// path and responses arrive as single-key JSON objects, e.g. {"GET": "..."}.
// One shared http.Client serves all concurrent requests.
type WebdisStore struct {
	baseURL string
	client  *http.Client
}

// WebdisOption configures a WebdisStore.
type WebdisOption func(*WebdisStore)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) WebdisOption {
	return func(s *WebdisStore) {
		if client != nil {
			s.client = client
		}
	}
}

// WithHTTPTimeout sets the per-request timeout on the default client.
func WithHTTPTimeout(timeout time.Duration) WebdisOption {
	return func(s *WebdisStore) {
		if timeout > 0 {
			s.client.Timeout = timeout
		}
	}
}

// NewWebdisStore creates a store proxied through the Webdis instance at
// baseURL, e.g. "http://localhost:7379".
func NewWebdisStore(baseURL string, opts ...WebdisOption) *WebdisStore {
	s := &WebdisStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *WebdisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Join(ErrMalformedValue, err)
	}

	var command string
	if ttl > 0 {
		// Round up so sub-second TTLs don't truncate to an immediate expiry.
		seconds := int64(math.Ceil(ttl.Seconds()))
		command = fmt.Sprintf("/SETEX/%s/%d/%s", url.PathEscape(key), seconds, url.PathEscape(string(data)))
	} else {
		command = fmt.Sprintf("/SET/%s/%s", url.PathEscape(key), url.PathEscape(string(data)))
	}

	var reply map[string]any
	return s.do(ctx, http.MethodPut, command, &reply)
}

func (s *WebdisStore) Get(ctx context.Context, key string, dest any) error {
	var reply struct {
		Get *string `json:"GET"`
	}
	if err := s.do(ctx, http.MethodGet, "/GET/"+url.PathEscape(key), &reply); err != nil {
		return err
	}

	if reply.Get == nil {
		return ErrNotFound
	}

	if err := json.Unmarshal([]byte(*reply.Get), dest); err != nil {
		return errors.Join(ErrMalformedValue, err)
	}
	return nil
}

func (s *WebdisStore) Delete(ctx context.Context, key string) error {
	var reply struct {
		Del int `json:"DEL"`
	}
	return s.do(ctx, http.MethodPut, "/DEL/"+url.PathEscape(key), &reply)
}

func (s *WebdisStore) do(ctx context.Context, method, command string, reply any) error {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+command, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("kv: webdis replied %s to %s", resp.Status, command)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, reply); err != nil {
		return errors.Join(ErrMalformedValue, err)
	}
	return nil
}
