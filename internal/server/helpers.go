package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HealthURL returns the /health endpoint of the server at serverURL, which
// may use an http or ws scheme
func HealthURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "http"
	case "https", "wss":
		u.Scheme = "https"
	default:
		return "", fmt.Errorf("invalid server URL scheme %q", u.Scheme)
	}
	u.Path = "/health"
	u.RawQuery = ""
	return u.String(), nil
}

// WaitForHealthy polls the server's /health endpoint until it returns 200 OK
// or the context is cancelled
func WaitForHealthy(ctx context.Context, serverURL string) error {
	healthURL, err := HealthURL(serverURL)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: 1 * time.Second}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
		if err != nil {
			return err
		}
		if resp, err := client.Do(req); err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("server at %s not healthy: %w", serverURL, ctx.Err())
		case <-ticker.C:
		}
	}
}
