package receipt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a non-success response from the receipt processor API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("receipt processor returned %d: %s", e.StatusCode, e.Message)
}

// Client calls a running receipt processor over HTTP
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the server at baseURL, e.g. http://localhost:8080
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Process submits a receipt and returns the ID assigned to it
func (c *Client) Process(ctx context.Context, receipt Receipt) (string, error) {
	body, err := json.Marshal(receipt)
	if err != nil {
		return "", fmt.Errorf("marshaling receipt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/receipts/process", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp SubmitResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Points fetches the score of a processed receipt. An unknown ID returns *NotFoundError.
func (c *Client) Points(ctx context.Context, id string) (ScoreResult, error) {
	endpoint := fmt.Sprintf("%s/receipts/%s/points", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("creating request: %w", err)
	}

	var score ScoreResult
	if err := c.do(req, &score); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return ScoreResult{}, &NotFoundError{ID: id}
		}
		return ScoreResult{}, err
	}
	return score, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling receipt processor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var errResp struct {
			Error string `json:"error"`
		}
		message := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			message = errResp.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
