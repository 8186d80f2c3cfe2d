package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/portfolio/internal/auth"
	"github.com/2beens/portfolio/internal/contact"
	"github.com/2beens/portfolio/internal/media"
	"github.com/2beens/portfolio/internal/project"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	ErrLoginFailed = errors.New("login failed")
	// ErrLoginRequired means the stored token was missing or rejected and has
	// been cleared; the caller has to log in again.
	ErrLoginRequired = errors.New("login required")
)

// APIError is a non 2xx response, other than 401, from a privileged call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error [%d]: %s", e.StatusCode, e.Message)
}

type Session struct {
	Subject   string    `json:"subject"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ListProjectsParams struct {
	Query string
	Tech  string
	Sort  string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
}

// NewClient creates an admin API client. A nil httpClient gets a traced
// client with a 30s timeout.
func NewClient(baseURL string, store TokenStore, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		store:      store,
	}
}

// Login exchanges credentials for a token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) (auth.Token, error) {
	body, err := json.Marshal(auth.Credentials{Email: email, Password: password})
	if err != nil {
		return auth.Token{}, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/admin/login", bytes.NewReader(body), "application/json")
	if err != nil {
		return auth.Token{}, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return auth.Token{}, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	defer drainAndClose(resp)

	if resp.StatusCode != http.StatusOK {
		return auth.Token{}, fmt.Errorf("%w: %s", ErrLoginFailed, errorMessage(resp))
	}

	var loginResp struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil || loginResp.Token == "" {
		return auth.Token{}, fmt.Errorf("%w: unexpected login response", ErrLoginFailed)
	}

	if err := c.store.Save(loginResp.Token); err != nil {
		return auth.Token{}, fmt.Errorf("save token: %w", err)
	}

	return auth.Token{Value: loginResp.Token, ExpiresAt: loginResp.ExpiresAt}, nil
}

// Logout revokes the token on the server when possible and always clears
// the stored one.
func (c *Client) Logout(ctx context.Context) error {
	token, err := c.store.Load()
	if err != nil {
		log.Debugf("logout, load token: %s", err)
	}

	if token != "" {
		if err := c.serverLogout(ctx, token); err != nil {
			log.Debugf("logout, server call failed: %s", err)
		}
	}

	return c.store.Clear()
}

func (c *Client) serverLogout(ctx context.Context, token string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/admin/logout", nil, "")
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer drainAndClose(resp)

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
	}
	return nil
}

func (c *Client) Session(ctx context.Context) (*Session, error) {
	var session Session
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/session", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) ListProjects(ctx context.Context, params ListProjectsParams) ([]project.Project, error) {
	query := url.Values{}
	if params.Query != "" {
		query.Set("q", params.Query)
	}
	if params.Tech != "" {
		query.Set("tech", params.Tech)
	}
	if params.Sort != "" {
		query.Set("sort", params.Sort)
	}

	path := "/api/projects"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var projects []project.Project
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) AddProject(ctx context.Context, input project.Input) (*project.Project, error) {
	var added project.Project
	if err := c.doJSON(ctx, http.MethodPost, "/api/projects", input, &added); err != nil {
		return nil, err
	}
	return &added, nil
}

// UpdateProject changes only the fields set in patch.
func (c *Client) UpdateProject(ctx context.Context, id int64, patch project.Patch) (*project.Project, error) {
	var updated project.Project
	if err := c.doJSON(ctx, http.MethodPut, "/api/projects/"+strconv.FormatInt(id, 10), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/projects/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) ListMessages(ctx context.Context) ([]contact.Message, error) {
	var messages []contact.Message
	if err := c.doJSON(ctx, http.MethodGet, "/api/contact", nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *Client) DeleteMessage(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/contact/"+strconv.FormatInt(id, 10), nil, nil)
}

// ClearMessages deletes all contact messages and returns how many were removed.
func (c *Client) ClearMessages(ctx context.Context) (int64, error) {
	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/api/contact", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

// UploadImage sends the image to the media host through the API and returns its URL.
func (c *Client) UploadImage(ctx context.Context, filename string, image io.Reader) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(media.FormField, filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", body, writer.FormDataContentType())
	if err != nil {
		return "", err
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := c.doPrivileged(req, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var (
		body        io.Reader
		contentType string
	)
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return c.doPrivileged(req, out)
}

// doPrivileged attaches the stored token (if any) and clears it when the
// server answers 401.
func (c *Client) doPrivileged(req *http.Request, out any) error {
	token, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer drainAndClose(resp)

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.store.Clear(); err != nil {
			log.Errorf("clear rejected token: %s", err)
		}
		return ErrLoginRequired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func errorMessage(resp *http.Response) string {
	var msgResp struct {
		Message string `json:"message"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(body, &msgResp); err == nil && msgResp.Message != "" {
		return msgResp.Message
	}
	if len(body) > 0 {
		return strings.TrimSpace(string(body))
	}
	return http.StatusText(resp.StatusCode)
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
