// Package api is the typed client of the bookapp REST backend. A Client
// decorates every outgoing request with the session's bearer credential and
// forces logout on any 401 before handing the error back to the caller.
// One attempt per call: no retry, no backoff.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"bookapp/internal/session"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout = 15 * time.Second
	apiPrefix      = "/api/v1"
)

// Client encapsulates HTTP interactions with the backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	session    *session.Session
	logger     *logrus.Logger
}

// Options overrides the client's dependencies.
type Options struct {
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// New builds a client bound to the given session. The session is the only
// place the credential lives; the client never stores a copy.
func New(baseURL string, sess *session.Session, opts Options) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is empty")
	}
	if sess == nil {
		return nil, fmt.Errorf("session is nil")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse baseURL: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	log := opts.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Client{baseURL: parsed, httpClient: httpClient, session: sess, logger: log}, nil
}

// do issues a single request. When the session holds a token the request
// carries it as a Bearer header; a 401 response invalidates the session
// before the response is returned.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	rel, err := url.Parse(apiPrefix + path)
	if err != nil {
		return nil, err
	}
	full := c.baseURL.ResolveReference(rel)
	if len(query) > 0 {
		full.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, full.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok, ok := c.session.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	c.logger.Debugf("%s %s", method, full.Path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Invalidate()
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload any) (*http.Response, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return nil, err
		}
		body = buf
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, body, contentType)
}

// decodeInto consumes a successful response body into out and closes it.
func decodeInto(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if out == nil {
		_, err := io.Copy(io.Discard, resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
