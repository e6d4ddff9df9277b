package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/server"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the budget engine over a JSON HTTP API",
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query a running service's status",
	RunE:  runServeStatus,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")

	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func serveAddr() string {
	if flagServeAddr != "" {
		return flagServeAddr
	}
	return appConfig.Server.Addr
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Flags and config set the defaults for requests that omit fields.
	snap, err := currentSnapshot(cmd)
	if err != nil {
		return err
	}
	cat, err := config.Catalog(appConfig)
	if err != nil {
		return err
	}

	svc := server.New(server.Config{
		Addr:     serveAddr(),
		Catalog:  cat,
		Incomes:  snap.Incomes(),
		Expenses: snap.Expenses(),
		Months:   snap.HorizonMonths(),
		Logger:   appLogger,
	})

	fmt.Printf("  cbudget listening on http://%s\n", serveAddr())
	fmt.Println("  Endpoints: /healthz /v1/status /v1/catalog /v1/evaluate")
	fmt.Println("  Stop with Ctrl+C")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
	defer cancel()
	return writeServeStatus(ctx, cmd.OutOrStdout(), serveAddr(), flagJSON)
}

// writeServeStatus queries the service at addr. Nothing is written to w when
// the service cannot be reached.
func writeServeStatus(ctx context.Context, w io.Writer, addr string, asJSON bool) error {
	st, err := fetchStatus(ctx, "http://"+addr)
	if err != nil {
		return fmt.Errorf("service at http://%s: %w", addr, err)
	}

	if asJSON {
		return writeJSON(w, st)
	}

	fmt.Fprintf(w, "  Address: http://%s\n", addr)
	fmt.Fprintf(w, "  Up since: %s\n", st.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(w, "  Categories: %d\n", st.Categories)
	fmt.Fprintf(w, "  Default horizon: %d months\n", st.Months)
	fmt.Fprintf(w, "  Requests: %d\n", st.Requests)
	fmt.Fprintf(w, "  Evaluations: %d (%d rejected)\n", st.Evaluations, st.Rejected)
	return nil
}

func fetchStatus(ctx context.Context, baseURL string) (server.Status, error) {
	var st server.Status

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, fmt.Errorf("unreachable (%w)", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed response (%w)", err)
	}
	return st, nil
}
