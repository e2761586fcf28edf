// Package gist provides a client for the GitHub Gist API, used as the
// remote document store for cross-device sync.
package gist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DocumentFilename is the file inside the gist that holds the synced
// snapshot. Other devices locate the gist by this name.
const DocumentFilename = "controle-financas-data.json"

const documentDescription = "Controle de Finanças - Dados sincronizados"

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

var (
	ErrInvalidToken     = errors.New("invalid GitHub token")
	ErrDocumentNotFound = errors.New("sync document not found")
)

// Client provides access to the Gist API with a personal access token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// User is the authenticated GitHub account.
type User struct {
	Login string `json:"login"`
}

type gistFile struct {
	Content string `json:"content"`
}

type gistResponse struct {
	ID    string              `json:"id"`
	Files map[string]gistFile `json:"files"`
}

// CurrentUser validates the token and returns the account it belongs to.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// FindDocument scans the account's gists for one containing the sync
// document. It returns the gist id, or ok=false when none exists yet.
func (c *Client) FindDocument(ctx context.Context) (string, bool, error) {
	var gists []gistResponse
	if err := c.do(ctx, http.MethodGet, "/gists", nil, &gists); err != nil {
		return "", false, err
	}
	for _, g := range gists {
		if _, ok := g.Files[DocumentFilename]; ok {
			return g.ID, true, nil
		}
	}
	return "", false, nil
}

// CreateDocument creates a new private gist holding the given snapshot
// content and returns its id.
func (c *Client) CreateDocument(ctx context.Context, content []byte) (string, error) {
	payload := map[string]any{
		"description": documentDescription,
		"public":      false,
		"files": map[string]gistFile{
			DocumentFilename: {Content: string(content)},
		},
	}
	var created gistResponse
	if err := c.do(ctx, http.MethodPost, "/gists", payload, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// GetDocument downloads the sync document content from the given gist.
func (c *Client) GetDocument(ctx context.Context, gistID string) ([]byte, error) {
	var g gistResponse
	if err := c.do(ctx, http.MethodGet, "/gists/"+gistID, nil, &g); err != nil {
		return nil, err
	}
	file, ok := g.Files[DocumentFilename]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return []byte(file.Content), nil
}

// UpdateDocument replaces the sync document content in the given gist.
func (c *Client) UpdateDocument(ctx context.Context, gistID string, content []byte) error {
	payload := map[string]any{
		"files": map[string]gistFile{
			DocumentFilename: {Content: string(content)},
		},
	}
	return c.do(ctx, http.MethodPatch, "/gists/"+gistID, payload, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidToken
	case resp.StatusCode == http.StatusNotFound:
		return ErrDocumentNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("github api: %s %s: %s", method, path, resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
