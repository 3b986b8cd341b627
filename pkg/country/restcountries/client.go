package restcountries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public REST Countries v3.1 endpoint.
const DefaultBaseURL = "https://restcountries.com/v3.1"

// maxBodySize caps how much of an upstream response is read (the /all
// listing is a few MB).
const maxBodySize = 32 << 20

// Client is a minimal REST Countries client. It implements country.Upstream.
type Client struct {
	BaseURL string
	httpDo  *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		httpDo: &http.Client{
			Timeout: timeout,
		},
	}
}

// HTTPError represents a non-2xx response from the upstream.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("restcountries http %d: %s", e.StatusCode, e.Message)
}

// Get performs GET {BaseURL}{path} and returns the raw JSON body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	endpoint := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpDo.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &errBody)
		if errBody.Message == "" {
			errBody.Message = http.StatusText(resp.StatusCode)
		}
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: errBody.Message}
	}
	if !json.Valid(body) {
		return nil, errors.New("restcountries returned invalid JSON")
	}
	return body, nil
}
