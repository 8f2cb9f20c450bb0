package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tinyledger-cli",
		Short: "TinyLedger CLI tool",
		Long:  `A command line interface for interacting with the TinyLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the TinyLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(balanceCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(depositCmd())
	rootCmd.AddCommand(withdrawCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the current balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := getJSON("/api/v1/balance")
			if err != nil {
				return err
			}

			printJSON(body)

			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded transactions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/transactions"
			sep := "?"
			if cmd.Flags().Changed("limit") {
				path += fmt.Sprintf("%slimit=%d", sep, limit)
				sep = "&"
			}
			if cmd.Flags().Changed("offset") {
				path += fmt.Sprintf("%soffset=%d", sep, offset)
			}

			body, err := getJSON(path)
			if err != nil {
				return err
			}

			printJSON(body)

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of transactions to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of transactions to skip")

	return cmd
}

func depositCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Record a deposit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordTransaction("DEPOSIT", args[0], description)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Free-form description")

	return cmd
}

func withdrawCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "withdraw <amount>",
		Short: "Record a withdrawal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordTransaction("WITHDRAWAL", args[0], description)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Free-form description")

	return cmd
}

// recordTransaction posts a transaction with a fresh idempotency key and
// retries transient failures. The key is generated once and reused across
// retries, so a retry after an ambiguous failure can never double-apply.
func recordTransaction(movementType, amount, description string) error {
	payload, err := json.Marshal(map[string]string{
		"type":         movementType,
		"amount_cents": amount,
		"description":  description,
	})
	if err != nil {
		return err
	}

	idempotencyKey := ulid.Make().String()

	var body []byte
	operation := func() error {
		var opErr error
		body, opErr = postJSON("/api/v1/transactions", payload, idempotencyKey)
		return opErr
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4)
	if err := backoff.Retry(operation, policy); err != nil {
		return err
	}

	printJSON(body)

	return nil
}

func getJSON(path string) ([]byte, error) {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, backoff.Permanent(fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body)))
	}

	return body, nil
}

func postJSON(path string, payload []byte, idempotencyKey string) ([]byte, error) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// Client errors will not succeed on retry
		return nil, backoff.Permanent(fmt.Errorf("request rejected (status %d): %s", resp.StatusCode, string(body)))
	default:
		return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}
}

func printJSON(body []byte) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}

	fmt.Println(pretty.String())
}
