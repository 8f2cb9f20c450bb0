package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/tinyledger/internal/adapter/http"
	"github.com/iho/tinyledger/internal/adapter/http/dto"
	"github.com/iho/tinyledger/internal/adapter/http/handler"
	"github.com/iho/tinyledger/internal/adapter/repository/memory"
	"github.com/iho/tinyledger/internal/usecase"
)

// TestServer wraps a fully wired ledger API over a fresh in-memory state.
type TestServer struct {
	Server *httptest.Server
	Ledger *usecase.LedgerUseCase
	t      *testing.T
}

// NewTestServer builds the complete HTTP stack the way the server binary
// does, minus Redis, Kafka and rate limiting.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	ledgerUC := usecase.NewLedgerUseCase(
		memory.NewMovementLog(),
		memory.NewBalanceTracker(),
		memory.NewIdempotencyIndex(),
		nil,
	)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler: handler.NewLedgerHandler(ledgerUC, nil),
		HealthHandler: handler.NewHealthHandler(nil),
		Logger:        zerolog.Nop(),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server: server,
		Ledger: ledgerUC,
		t:      t,
	}
}

// PostTransaction sends a transaction request. idempotencyKey may be empty.
func (ts *TestServer) PostTransaction(req dto.TransactionRequest, idempotencyKey string) (*http.Response, []byte) {
	ts.t.Helper()

	payload, err := json.Marshal(req)
	if err != nil {
		ts.t.Fatalf("failed to marshal request: %v", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/api/v1/transactions", bytes.NewReader(payload))
	if err != nil {
		ts.t.Fatalf("failed to build request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		ts.t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		ts.t.Fatalf("failed to read response: %v", err)
	}

	return resp, body
}

// GetBalance fetches the current balance.
func (ts *TestServer) GetBalance() dto.BalanceResponse {
	ts.t.Helper()

	var balance dto.BalanceResponse
	ts.getJSON("/api/v1/balance", &balance)

	return balance
}

// GetHistory fetches the transaction history. query may be empty or a raw
// query string such as "limit=2&offset=1".
func (ts *TestServer) GetHistory(query string) dto.ListTransactionsResponse {
	ts.t.Helper()

	path := "/api/v1/transactions"
	if query != "" {
		path += "?" + query
	}

	var list dto.ListTransactionsResponse
	ts.getJSON(path, &list)

	return list
}

func (ts *TestServer) getJSON(path string, out any) {
	ts.t.Helper()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(ts.Server.URL + path)
	if err != nil {
		ts.t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		ts.t.Fatalf("expected 200 for %s, got %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		ts.t.Fatalf("failed to decode response: %v", err)
	}
}

// GenerateKey generates a fresh idempotency key.
func GenerateKey() string {
	return ulid.Make().String()
}
