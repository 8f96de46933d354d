package pointsledger

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/ledger"
)

// Client is a forum points service client. It implements the engine's
// ledger interface.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a points service client.
func NewClient(config *ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// NewClientWithHTTPClient creates a client with a custom HTTP client.
func NewClientWithHTTPClient(config *ClientConfig, httpClient *http.Client) *Client {
	return &Client{
		config:     config,
		httpClient: httpClient,
	}
}

// computeHMAC signs the request body with the shared secret.
func (c *Client) computeHMAC(body []byte) string {
	h := hmac.New(sha256.New, []byte(c.config.APISecret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// doRequest performs a signed POST, retrying transport failures. A
// response from the service, success or error, ends the retries:
// debit and credit are not safe to repeat blindly once the service
// has seen them.
func (c *Client) doRequest(ctx context.Context, endpoint string, reqBody, result any) error {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	attempts := c.config.RetryCount
	if attempts <= 0 {
		attempts = 1
	}

	var resp *http.Response
	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+endpoint, bytes.NewReader(bodyBytes))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.config.APIKey)
		req.Header.Set("x-api-hmac", c.computeHMAC(bodyBytes))

		resp, lastErr = c.httpClient.Do(req)
		if lastErr == nil {
			break
		}
	}
	if resp == nil {
		return fmt.Errorf("%w: request failed after %d attempts: %v", ledger.ErrUnavailable, attempts, lastErr)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ledger.ErrUnavailable, err)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("%w: failed to parse response: %v", ledger.ErrUnavailable, err)
	}

	return nil
}

// translate maps a points service error onto the ledger's sentinels.
// The original APIError stays in the chain so callers can still reach
// the service's code.
func translate(apiErr *APIError) error {
	switch apiErr.Code {
	case ErrCodeInsufficientPoints:
		return fmt.Errorf("%w: %w", ledger.ErrInsufficientFunds, apiErr)
	case ErrCodePlayerNotFound:
		return fmt.Errorf("%w: %w", ledger.ErrPlayerNotFound, apiErr)
	case ErrCodeInvalidAmount:
		return fmt.Errorf("%w: %w", ledger.ErrInvalidAmount, apiErr)
	default:
		return fmt.Errorf("%w: %w", ledger.ErrUnavailable, apiErr)
	}
}

// Balance returns the member's current point balance.
func (c *Client) Balance(ctx context.Context, playerID string) (int64, error) {
	var resp Response[BalanceResult]
	if err := c.doRequest(ctx, "/balance", &BalanceRequest{PlayerID: playerID}, &resp); err != nil {
		return 0, err
	}

	if resp.Error != nil {
		return 0, translate(resp.Error)
	}
	if resp.Result == nil {
		return 0, fmt.Errorf("%w: empty balance response", ledger.ErrUnavailable)
	}
	return resp.Result.Points, nil
}

// Debit removes points from the member's balance.
func (c *Client) Debit(ctx context.Context, playerID string, amount int64, txType domain.TransactionType, ref, memo string) (int64, error) {
	return c.mutate(ctx, "/debit", playerID, amount, txType, ref, memo)
}

// Credit adds points to the member's balance. The reference makes the
// call idempotent on the service side; a duplicate-reference error
// means the credit already happened and is returned as success.
func (c *Client) Credit(ctx context.Context, playerID string, amount int64, txType domain.TransactionType, ref, memo string) (int64, error) {
	points, err := c.mutate(ctx, "/credit", playerID, amount, txType, ref, memo)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == ErrCodeDuplicateReference {
			return c.Balance(ctx, playerID)
		}
		return 0, err
	}
	return points, nil
}

func (c *Client) mutate(ctx context.Context, endpoint, playerID string, amount int64, txType domain.TransactionType, ref, memo string) (int64, error) {
	if amount <= 0 {
		return 0, ledger.ErrInvalidAmount
	}

	req := &MutateRequest{
		PlayerID:  playerID,
		Amount:    amount,
		Type:      string(txType),
		Reference: ref,
		Memo:      memo,
	}

	var resp Response[MutateResult]
	if err := c.doRequest(ctx, endpoint, req, &resp); err != nil {
		return 0, err
	}

	if resp.Error != nil {
		return 0, translate(resp.Error)
	}
	if resp.Result == nil {
		return 0, fmt.Errorf("%w: empty mutate response", ledger.ErrUnavailable)
	}
	return resp.Result.Points, nil
}
