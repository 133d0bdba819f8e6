// Package api is the REST client for the staff backend. It owns request
// plumbing only: bearer attachment, the shared cookie jar, JSON codec, and
// error translation. What a response means is the caller's business.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"staffdesk/pkg/platform/sentinel"
)

// TokenSource supplies the bearer credential for authenticated calls.
// credential.Store satisfies it.
type TokenSource interface {
	Load(ctx context.Context) (string, bool)
}

// BackendError carries the backend's own message for a non-2xx response.
// The message is surfaced to the user verbatim, so never rewrite it here.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return e.Message
}

// Client talks to the staff backend. The cookie jar is shared with the
// credential store so requests routed through the gate carry the auth cookie.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
}

func NewClient(baseURL string, jar http.CookieJar, tokens TokenSource) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend URL: %w", err)
	}

	return &Client{
		baseURL: parsed,
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
	}, nil
}

// Login exchanges credentials for a token and the employee profile.
// It never attaches a bearer: the whole point is that we do not have one yet.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/Auth/login", nil, body, &result, false); err != nil {
		return nil, err
	}
	return &result, nil
}

// CurrentUser resolves the stored token into the current identity. A 401
// here is the backend telling us the token is dead, so the error wraps
// sentinel.ErrExpired for callers that distinguish "expired" from "backend
// unreachable".
func (c *Client) CurrentUser(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/Auth/me", nil, nil, &profile, true); err != nil {
		var backendErr *BackendError
		if errors.As(err, &backendErr) && backendErr.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %w", sentinel.ErrExpired, err)
		}
		return nil, err
	}
	return &profile, nil
}

// ListEmployees fetches one page of employees.
func (c *Client) ListEmployees(ctx context.Context, params ListEmployeesParams) (*EmployeePage, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(params.PageSize))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.DepartmentID != "" {
		query.Set("departmentId", params.DepartmentID)
	}

	var page EmployeePage
	if err := c.do(ctx, http.MethodGet, "/Employees", query, nil, &page, true); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreateEmployee(ctx context.Context, input CreateEmployeeInput) (*Employee, error) {
	var created Employee
	if err := c.do(ctx, http.MethodPost, "/Employees", nil, input, &created, true); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateEmployee(ctx context.Context, id string, input CreateEmployeeInput) (*Employee, error) {
	var updated Employee
	if err := c.do(ctx, http.MethodPut, "/Employees/"+url.PathEscape(id), nil, input, &updated, true); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/Employees/"+url.PathEscape(id), nil, nil, nil, true)
}

func (c *Client) ListDepartments(ctx context.Context) ([]Department, error) {
	var departments []Department
	if err := c.do(ctx, http.MethodGet, "/Departments", nil, nil, &departments, true); err != nil {
		return nil, err
	}
	return departments, nil
}

func (c *Client) CreateDepartment(ctx context.Context, name string) (*Department, error) {
	body := map[string]string{"name": name}
	var created Department
	if err := c.do(ctx, http.MethodPost, "/Departments", nil, body, &created, true); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteDepartment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/Departments/"+url.PathEscape(id), nil, nil, nil, true)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authenticated bool) error {
	target := c.baseURL.JoinPath(path)
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if authenticated {
		if token, ok := c.tokens.Load(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// decodeError extracts the backend's message from an error response. The
// backend uses a {"message": ...} envelope; anything else falls back to the
// raw body or the HTTP status text.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Message != "" {
		return &BackendError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	message := string(bytes.TrimSpace(raw))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &BackendError{StatusCode: resp.StatusCode, Message: message}
}
