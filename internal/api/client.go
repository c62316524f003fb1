package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// Error represents a failed API response. Status 0 is reserved for
// connectivity-level failures where no HTTP response was received.
type Error struct {
	Status   int
	Message  string
	Messages []string
	Code     string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Messages) > 0 {
		return strings.Join(e.Messages, "; ")
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// TokenSource yields the current session token, empty when logged out.
type TokenSource func() string

// Client is the shared HTTP plumbing for one remote resource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

// NewClient constructs a resource client. A nil token source sends
// unauthenticated requests.
func NewClient(baseURL string, timeout time.Duration, token TokenSource) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
	}
}

func (c *Client) doJSON(method, path string, query url.Values, payload any, out any) error {
	var token string
	if c.token != nil {
		token = c.token()
	}
	return c.doJSONToken(method, path, query, token, payload, out)
}

func (c *Client) doJSONToken(method, path string, query url.Values, token string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError reads an error body. The message field may be a single
// string or a list of validation messages.
func decodeError(resp *http.Response) *Error {
	apiErr := &Error{Status: resp.StatusCode}
	var raw struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
		Code    string          `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return apiErr
	}
	apiErr.Code = strings.TrimSpace(raw.Code)
	if len(raw.Message) > 0 {
		var single string
		if err := json.Unmarshal(raw.Message, &single); err == nil {
			apiErr.Message = single
		} else {
			var many []string
			if err := json.Unmarshal(raw.Message, &many); err == nil {
				apiErr.Messages = many
			}
		}
	}
	if apiErr.Message == "" && len(apiErr.Messages) == 0 && raw.Error != "" {
		apiErr.Message = raw.Error
	}
	return apiErr
}
