package client

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

	"github.com/dmitrijs2005/neatly/internal/client/models"
	"github.com/dmitrijs2005/neatly/internal/common"
)

const apiPrefix = "/api/auth"

type HTTPClient struct {
	baseURL    string
	cookieName string
	http       *http.Client
}

func NewHTTPClient(baseURL, cookieName string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cookieName: cookieName,
		http:       &http.Client{Timeout: timeout},
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User        models.Identity `json:"user"`
	AccessToken string          `json:"accessToken"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (c *HTTPClient) Register(ctx context.Context, name, email string, password []byte) (*models.Session, error) {
	body := registerRequest{Name: name, Email: email, Password: string(password)}
	return c.session(ctx, "/register", body, "")
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	body := loginRequest{Email: email, Password: string(password)}
	return c.session(ctx, "/login", body, "")
}

// Refresh rotates refreshToken. The returned session carries the new refresh
// token; the old one is spent whether or not the call succeeded.
func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	if refreshToken == "" {
		return nil, ErrUnauthorized
	}
	return c.session(ctx, "/refresh", nil, refreshToken)
}

// Logout asks the server to revoke refreshToken. An empty token is still
// sent so the server clears its cookie.
func (c *HTTPClient) Logout(ctx context.Context, refreshToken string) error {
	resp, err := c.do(ctx, http.MethodPost, "/logout", nil, "", refreshToken)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var out messageResponse
	return c.decode(resp, &out)
}

func (c *HTTPClient) Me(ctx context.Context, accessToken string) (*models.Identity, error) {
	resp, err := c.do(ctx, http.MethodGet, "/me", nil, accessToken, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out models.Identity
	if err := c.decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateAvatarUpload(ctx context.Context, accessToken string) (*models.AvatarUpload, error) {
	resp, err := c.do(ctx, http.MethodPost, "/me/avatar", nil, accessToken, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out models.AvatarUpload
	if err := c.decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) session(ctx context.Context, path string, body any, refreshToken string) (*models.Session, error) {
	resp, err := c.do(ctx, http.MethodPost, path, body, "", refreshToken)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out sessionResponse
	if err := c.decode(resp, &out); err != nil {
		return nil, err
	}

	s := &models.Session{User: out.User, AccessToken: out.AccessToken}
	for _, ck := range resp.Cookies() {
		if ck.Name == c.cookieName && ck.MaxAge >= 0 {
			s.RefreshToken = ck.Value
		}
	}
	if s.RefreshToken == "" {
		return nil, fmt.Errorf("response to %s has no %s cookie", path, c.cookieName)
	}
	return s, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, accessToken, refreshToken string) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if accessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+accessToken)
	}
	if refreshToken != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: refreshToken})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

// decode fills out from a 200 response or maps the error status.
func (c *HTTPClient) decode(resp *http.Response, out any) error {
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	var e errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&e)
	msg := e.Error
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, msg)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
	}
}
