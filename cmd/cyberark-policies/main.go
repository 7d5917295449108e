// Package main is the entry point for the cyberark-policies binary.
// It retrieves Secure Cloud Access and Secure Infrastructure Access policies
// from the CyberArk platform APIs and prints a combined report.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/policyops/cyberark-policies/pkg/config"
	"github.com/policyops/cyberark-policies/pkg/identity"
	"github.com/policyops/cyberark-policies/pkg/logging"
	"github.com/policyops/cyberark-policies/pkg/policies"
	"github.com/policyops/cyberark-policies/pkg/prompt"
	"github.com/policyops/cyberark-policies/pkg/report"
	"github.com/policyops/cyberark-policies/pkg/telemetry"
)

const (
	defaultLogLevel = "info"
	defaultTimeout  = 30 * time.Second

	secretLabel = "\nEnter client secret: "
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\n[ERROR] %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command for cyberark-policies.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cyberark-policies",
		Short: "Retrieve CyberArk SCA and SIA policies",
		Long: `Authenticates to the CyberArk identity service with an OAuth 2.0
client-credentials grant and prints every Secure Cloud Access (SCA) and
Secure Infrastructure Access (SIA) policy of the tenant.

Configuration comes from CYBERARK_IDENTITY_TENANT_ID, CYBERARK_SUBDOMAIN and
CYBERARK_CLIENT_ID, optionally seeded from a .env or YAML file. The client
secret is always prompted for interactively and never read from the
environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRetrieve,
	}

	rootCmd.Flags().StringP("config", "c", "", "Path to configuration file (YAML)")
	rootCmd.Flags().StringP("env-file", "e", "", "Path to .env file (default \".env\")")
	rootCmd.Flags().StringP("log-level", "l", defaultLogLevel, "Log level (debug, info, warn, error)")
	rootCmd.Flags().Bool("pretty", true, "Enable pretty console logging")
	rootCmd.Flags().Duration("timeout", defaultTimeout, "HTTP timeout for each request")

	return rootCmd
}

// app carries the wiring of one run. Tests substitute the secret reader and
// the endpoint URLs.
type app struct {
	out        io.Writer
	logger     *slog.Logger
	httpClient *http.Client
	readSecret func(io.Writer, string) (*prompt.Secret, error)

	tokenURL   string
	scaBaseURL string
	siaBaseURL string
}

func runRetrieve(cmd *cobra.Command, _ []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	logLevel, _ := cmd.Flags().GetString("log-level")
	pretty, _ := cmd.Flags().GetBool("pretty")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	logger := logging.NewLogger(logging.Config{Level: logLevel, Pretty: pretty})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.Options{ConfigFile: configFile, EnvFile: envFile})
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: "cyberark-policies",
		Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	})
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Warn("Trace flush failed", "error", err)
			}
		}()
	}

	a := &app{
		out:    cmd.OutOrStdout(),
		logger: logger,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		readSecret: prompt.ReadSecret,
	}
	return a.run(ctx, cfg)
}

// run sequences the retrieval: validate, prompt, authenticate, fetch SCA,
// fetch SIA, report. Any failure aborts immediately; no partial report is
// printed.
func (a *app) run(ctx context.Context, cfg *config.Config) error {
	printBanner(a.out)

	if err := cfg.Validate(); err != nil {
		var missingErr *config.MissingConfigError
		if errors.As(err, &missingErr) {
			printConfigGuidance(a.out, missingErr)
		}
		return err
	}

	secret, err := a.readSecret(a.out, secretLabel)
	if err != nil {
		return err
	}

	tracer := otel.Tracer("cyberark-policies")
	ctx, span := tracer.Start(ctx, "retrieve-policies")
	defer span.End()

	fmt.Fprintln(a.out, "\n[1/3] Authenticating via OAuth 2.0...")
	idClient := &identity.Client{
		TenantID:   cfg.TenantID,
		ClientID:   cfg.ClientID,
		HTTPClient: a.httpClient,
		TokenURL:   a.tokenURL,
	}
	token, err := idClient.Token(ctx, secret)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "      ✓ Bearer token acquired")

	polClient := policies.NewClient(cfg.Subdomain, a.httpClient)
	a.logger.Debug("Policy client ready", "request_id", polClient.RequestID())

	scaEndpoint := policies.SCA
	scaEndpoint.BaseURL = a.scaBaseURL
	fmt.Fprintln(a.out, "[2/3] Retrieving SCA policies...")
	var sca policies.SCACollection
	if err := polClient.Fetch(ctx, scaEndpoint, token, &sca); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "      ✓ Done")

	siaEndpoint := policies.SIA
	siaEndpoint.BaseURL = a.siaBaseURL
	fmt.Fprintln(a.out, "[3/3] Retrieving SIA policies...")
	var sia policies.SIACollection
	if err := polClient.Fetch(ctx, siaEndpoint, token, &sia); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "      ✓ Done")

	report.Render(a.out, &sca, &sia)
	return nil
}

func printBanner(w io.Writer) {
	border := strings.Repeat("=", 60)
	fmt.Fprintln(w, border)
	fmt.Fprintln(w, "CyberArk SCA & SIA Policy Retriever")
	fmt.Fprintln(w, border)
}

func printConfigGuidance(w io.Writer, err *config.MissingConfigError) {
	fmt.Fprintf(w, "\n[ERROR] Missing environment variables: %s\n", strings.Join(err.Missing, ", "))
	fmt.Fprintf(w, "Set %s, %s, and %s\n", config.EnvTenantID, config.EnvSubdomain, config.EnvClientID)
	fmt.Fprintln(w, "in your .env file or environment. See .env.example for reference.")
}
