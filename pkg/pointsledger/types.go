package pointsledger

import "time"

// Error codes returned by the points service.
const (
	ErrCodeUnexpected         = "UNEXPECTED_ERROR"
	ErrCodeNotAuthorized      = "NOT_AUTHORIZED"
	ErrCodePlayerNotFound     = "PLAYER_NOT_FOUND"
	ErrCodeInsufficientPoints = "INSUFFICIENT_POINTS"
	ErrCodeInvalidAmount      = "INVALID_AMOUNT"
	ErrCodeDuplicateReference = "DUPLICATE_REFERENCE"
)

// APIError is an error response from the points service.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Response wraps a points service response with either result or
// error.
type Response[T any] struct {
	Result *T        `json:"result,omitempty"`
	Error  *APIError `json:"error,omitempty"`
}

// ClientConfig configures the points service client.
type ClientConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string

	// Timeout for each HTTP request; defaults to 30 seconds.
	Timeout time.Duration

	// RetryCount is the number of attempts per request; defaults to 1.
	RetryCount int
}

// BalanceRequest is the request body for /balance.
type BalanceRequest struct {
	PlayerID string `json:"playerId"`
}

// BalanceResult is the result of a balance query.
type BalanceResult struct {
	Points int64 `json:"points"`
}

// MutateRequest is the request body for /debit and /credit.
type MutateRequest struct {
	PlayerID  string `json:"playerId"`
	Amount    int64  `json:"amount"`
	Type      string `json:"type"`
	Reference string `json:"reference"`
	Memo      string `json:"memo,omitempty"`
}

// MutateResult is the result of a debit or credit.
type MutateResult struct {
	Points int64 `json:"points"`
}
