// Package main is the operator CLI that triggers a digest run against a
// running campaign API server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	serverURL   string
	secret      string
	frequency   string
	sendEmail   bool
	periodStart string
	periodEnd   string
	httpTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "digest",
	Short: "Trigger a digest run",
	Long:  `Trigger a digest run on a campaign API server via its internal endpoint.`,
	RunE:  runDigest,
}

func init() {
	rootCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the campaign API server")
	rootCmd.Flags().StringVar(&secret, "secret", "", "digest shared secret (defaults to DIGEST_SECRET)")
	rootCmd.Flags().StringVar(&frequency, "frequency", "weekly", "digest frequency: daily, weekly, or monthly")
	rootCmd.Flags().BoolVar(&sendEmail, "send-email", false, "actually send emails instead of a dry run")
	rootCmd.Flags().StringVar(&periodStart, "period-start", "", "period start override (RFC 3339)")
	rootCmd.Flags().StringVar(&periodEnd, "period-end", "", "period end override (RFC 3339)")
	rootCmd.Flags().DurationVar(&httpTimeout, "timeout", 30*time.Second, "request timeout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type digestRequest struct {
	Frequency   string     `json:"frequency"`
	SendEmail   bool       `json:"sendEmail"`
	PeriodStart *time.Time `json:"periodStart,omitempty"`
	PeriodEnd   *time.Time `json:"periodEnd,omitempty"`
}

// buildRequest assembles the trigger request from the flag values.
func buildRequest(serverURL, secret, frequency string, sendEmail bool, periodStart, periodEnd string) (*http.Request, error) {
	if secret == "" {
		return nil, fmt.Errorf("digest secret is required (--secret or DIGEST_SECRET)")
	}

	body := digestRequest{
		Frequency: frequency,
		SendEmail: sendEmail,
	}

	if periodStart != "" {
		t, err := time.Parse(time.RFC3339, periodStart)
		if err != nil {
			return nil, fmt.Errorf("invalid --period-start: %w", err)
		}
		body.PeriodStart = &t
	}
	if periodEnd != "" {
		t, err := time.Parse(time.RFC3339, periodEnd)
		if err != nil {
			return nil, fmt.Errorf("invalid --period-end: %w", err)
		}
		body.PeriodEnd = &t
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, serverURL+"/api/internal/digest", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Digest-Secret", secret)

	return req, nil
}

func runDigest(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if secret == "" {
		secret = os.Getenv("DIGEST_SECRET")
	}

	req, err := buildRequest(serverURL, secret, frequency, sendEmail, periodStart, periodEnd)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: httpTimeout}
	resp, err := client.Do(req.WithContext(cmd.Context()))
	if err != nil {
		return fmt.Errorf("digest request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("digest run failed with status %d: %s", resp.StatusCode, respBody)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(respBody))
	return nil
}
