package adguard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrNoCookie is returned when the login endpoint answers without a
// session cookie. AdGuard Home signals a successful login only through
// Set-Cookie, so a 200 with no cookie still means the credentials were
// not accepted.
var ErrNoCookie = errors.New("No cookies found in response")

type Config struct {
	BaseURL   string
	Username  string
	Password  string
	Timeout   time.Duration
	ServiceID string
}

// Client talks to the AdGuard Home control API. It holds no session
// state: every mutating call performs its own login, so a single Client
// is safe to share across concurrent handlers.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func New(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.ServiceID == "" {
		cfg.ServiceID = "youtube"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type updateRequest struct {
	IDs      []string `json:"ids"`
	Schedule schedule `json:"schedule"`
}

type schedule struct {
	TimeZone string `json:"time_zone"`
}

// Login authenticates against the appliance and returns the session
// cookie to attach to the next mutating call. Tokens are never cached;
// a token is used exactly once, right after it is obtained.
func (c *Client) Login(ctx context.Context) (string, error) {
	loginURL := c.cfg.BaseURL + "/control/login"
	slog.Info("sending login request", "url", loginURL)

	body, err := json.Marshal(loginRequest{Name: c.cfg.Username, Password: c.cfg.Password})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if cookie := resp.Header.Get("Set-Cookie"); cookie != "" {
		slog.Info("login successful, received cookies")
		return cookie, nil
	}

	// Keep the body around for diagnostics: the appliance typically
	// explains a rejected login in it.
	respBody, _ := io.ReadAll(resp.Body)
	slog.Error("login response had no cookies", "status", resp.StatusCode, "body", string(respBody))
	return "", ErrNoCookie
}

// SetBlocking updates the appliance's blocked-services list. Enabling
// puts the tracked service on the list, disabling clears it; there is
// no separate toggle flag on the API. The appliance's response status
// and body are logged but not interpreted, so only transport failures
// surface as errors.
func (c *Client) SetBlocking(ctx context.Context, token string, enabled bool) error {
	updateURL := c.cfg.BaseURL + "/control/blocked_services/update"

	ids := []string{}
	if enabled {
		ids = []string{c.cfg.ServiceID}
	}
	slog.Info("updating blocked services", "url", updateURL, "ids", ids)

	body, err := json.Marshal(updateRequest{IDs: ids, Schedule: schedule{TimeZone: "Local"}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, updateURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("blocked services update: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	slog.Info("blocked services update response", "status", resp.StatusCode, "body", string(respBody))
	return nil
}
