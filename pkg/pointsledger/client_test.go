package pointsledger

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/ledger"
)

const (
	testAPIKey    = "test-api-key"
	testAPISecret = "test-api-secret"
)

// mockServer validates the signed request and returns the given
// response.
func mockServer(t *testing.T, expectedPath string, validateBody func(body []byte) error, response any) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Path != expectedPath {
			t.Errorf("Expected path %s, got %s", expectedPath, r.URL.Path)
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		if r.Header.Get("x-api-key") != testAPIKey {
			t.Errorf("Expected API key %s, got %s", testAPIKey, r.Header.Get("x-api-key"))
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Failed to read body: %v", err)
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}

		if got, want := r.Header.Get("x-api-hmac"), computeTestHMAC(body); got != want {
			t.Errorf("HMAC mismatch: expected %s, got %s", want, got)
		}

		if validateBody != nil {
			if err := validateBody(body); err != nil {
				t.Errorf("Body validation failed: %v", err)
				http.Error(w, "Bad request", http.StatusBadRequest)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
}

func computeTestHMAC(body []byte) string {
	h := hmac.New(sha256.New, []byte(testAPISecret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func newTestClient(baseURL string) *Client {
	return NewClient(&ClientConfig{
		BaseURL:    baseURL,
		APIKey:     testAPIKey,
		APISecret:  testAPISecret,
		Timeout:    5 * time.Second,
		RetryCount: 1,
	})
}

func TestBalance_Success(t *testing.T) {
	server := mockServer(t, "/balance", func(body []byte) error {
		var req BalanceRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return err
		}
		if req.PlayerID != "member-42" {
			t.Errorf("playerId = %s, want member-42", req.PlayerID)
		}
		return nil
	}, Response[BalanceResult]{Result: &BalanceResult{Points: 1500}})
	defer server.Close()

	client := newTestClient(server.URL)

	points, err := client.Balance(context.Background(), "member-42")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if points != 1500 {
		t.Errorf("points = %d, want 1500", points)
	}
}

func TestBalance_PlayerNotFound(t *testing.T) {
	server := mockServer(t, "/balance", nil, Response[BalanceResult]{
		Error: &APIError{Code: ErrCodePlayerNotFound, Message: "no such member"},
	})
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Balance(context.Background(), "ghost")
	if !errors.Is(err, ledger.ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestDebit_Success(t *testing.T) {
	server := mockServer(t, "/debit", func(body []byte) error {
		var req MutateRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return err
		}
		if req.Amount != 100 || req.Type != "wager" || req.Reference != "round-1" {
			t.Errorf("request = %+v", req)
		}
		return nil
	}, Response[MutateResult]{Result: &MutateResult{Points: 900}})
	defer server.Close()

	client := newTestClient(server.URL)

	after, err := client.Debit(context.Background(), "member-42", 100, domain.TxTypeWager, "round-1", "baccarat bet")
	if err != nil {
		t.Fatalf("Debit failed: %v", err)
	}
	if after != 900 {
		t.Errorf("balance after = %d, want 900", after)
	}
}

func TestDebit_InsufficientPoints(t *testing.T) {
	server := mockServer(t, "/debit", nil, Response[MutateResult]{
		Error: &APIError{Code: ErrCodeInsufficientPoints, Message: "balance too low"},
	})
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Debit(context.Background(), "member-42", 100, domain.TxTypeWager, "round-1", "")
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestDebit_RejectsNonPositiveAmount(t *testing.T) {
	client := newTestClient("http://points.invalid")

	_, err := client.Debit(context.Background(), "member-42", 0, domain.TxTypeWager, "round-1", "")
	if !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount without any request, got %v", err)
	}
}

func TestCredit_Success(t *testing.T) {
	server := mockServer(t, "/credit", nil, Response[MutateResult]{Result: &MutateResult{Points: 1200}})
	defer server.Close()

	client := newTestClient(server.URL)

	after, err := client.Credit(context.Background(), "member-42", 300, domain.TxTypeWin, "round-1", "roulette win")
	if err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if after != 1200 {
		t.Errorf("balance after = %d, want 1200", after)
	}
}

func TestCredit_DuplicateReferenceIsSuccess(t *testing.T) {
	// A repeated credit reference means a previous attempt actually
	// landed; the client resolves it as success by fetching the
	// balance.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/credit":
			json.NewEncoder(w).Encode(Response[MutateResult]{
				Error: &APIError{Code: ErrCodeDuplicateReference, Message: "reference already applied"},
			})
		case "/balance":
			json.NewEncoder(w).Encode(Response[BalanceResult]{Result: &BalanceResult{Points: 1200}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	after, err := client.Credit(context.Background(), "member-42", 300, domain.TxTypeWin, "round-1", "")
	if err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if after != 1200 {
		t.Errorf("balance after = %d, want 1200", after)
	}
}

func TestUnreachableServiceIsUnavailable(t *testing.T) {
	client := NewClient(&ClientConfig{
		BaseURL:    "http://127.0.0.1:1",
		APIKey:     testAPIKey,
		APISecret:  testAPISecret,
		Timeout:    500 * time.Millisecond,
		RetryCount: 2,
	})

	_, err := client.Balance(context.Background(), "member-42")
	if !errors.Is(err, ledger.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestClientImplementsLedger(t *testing.T) {
	var _ ledger.Ledger = (*Client)(nil)
}
