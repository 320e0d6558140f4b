// Package cli provides the CLI application, i.e. the `tfmetrics` binary.
package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/coder/quartz"
	"github.com/joho/godotenv"
	cmdutil "github.com/leg100/tfmetrics/cmd"
	"github.com/leg100/tfmetrics/internal"
	"github.com/leg100/tfmetrics/internal/collector"
	tfhttp "github.com/leg100/tfmetrics/internal/http"
	"github.com/leg100/tfmetrics/internal/logr"
	"github.com/leg100/tfmetrics/internal/month"
	"github.com/leg100/tfmetrics/internal/report"
	"github.com/leg100/tfmetrics/internal/run"
	"github.com/leg100/tfmetrics/internal/workspace"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// TokenEnvVar is the environment variable from which the API token is read if
// it is not set any other way.
const TokenEnvVar = "TERRAFORM_TOKEN"

type (
	// CLI is the `tfmetrics` cli application
	CLI struct {
		clock      quartz.Clock
		dotenvPath string
	}

	// Config is constructed once at startup from flags and the environment
	// and passed to every component.
	Config struct {
		Organization string
		Address      string
		Token        string
		CSVPath      string
		MetricsPath  string
		Timeout      time.Duration
		Insecure     bool
		Logging      logr.Config
	}
)

func NewCLI() *CLI {
	return &CLI{
		clock:      quartz.NewReal(),
		dotenvPath: ".env",
	}
}

func (a *CLI) Run(ctx context.Context, args []string, out io.Writer) error {
	if err := loadDotEnv(a.dotenvPath); err != nil {
		return &internal.ConfigError{Err: pkgerrors.Wrap(err, "loading .env file")}
	}

	var cfg Config

	cmd := &cobra.Command{
		Use:           "tfmetrics",
		Short:         "Report workspace metrics for a Terraform Cloud/Enterprise organization",
		Long:          "Report each workspace's resource count, applies per month and run queue times, with organization-wide totals.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.report(cmd, cfg, report.AllSections)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.Organization, "organization", "", "Name of the organization")
	flags.StringVar(&cfg.Address, "address", tfhttp.DefaultURL, "Address of the Terraform Cloud/Enterprise server")
	flags.StringVar(&cfg.Token, "token", "", "API authentication token")
	flags.StringVar(&cfg.CSVPath, "csv", report.DefaultCSVPath, "Path to write CSV report to; empty to skip")
	flags.StringVar(&cfg.MetricsPath, "metrics-file", "", "Path to write Prometheus metrics to; empty to skip")
	flags.DurationVar(&cfg.Timeout, "timeout", 0, "Abort after this duration; zero for no timeout")
	flags.BoolVar(&cfg.Insecure, "insecure", false, "Skip verification of the server's TLS certificate")
	logr.LoadConfigFromFlags(flags, &cfg.Logging)

	cmd.SetArgs(args)
	cmd.SetOut(out)

	cmd.AddCommand(a.appliesCommand(&cfg))
	cmd.AddCommand(a.queueTimeCommand(&cfg))

	if err := cmdutil.SetFlagsFromEnvVariables(flags); err != nil {
		return &internal.ConfigError{Err: pkgerrors.Wrap(err, "failed to populate config from environment vars")}
	}

	return cmd.ExecuteContext(ctx)
}

func (a *CLI) appliesCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:           "applies",
		Short:         "Report resource counts and applies per month",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.report(cmd, *cfg, report.Sections{Resources: true, Applies: true})
		},
	}
}

func (a *CLI) queueTimeCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:           "queue-time",
		Short:         "Report how long runs spend queued",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.report(cmd, *cfg, report.Sections{Queue: true})
		},
	}
}

// report collects metrics and writes them to the configured sinks. Only
// configuration errors and failures to write a sink are returned: a
// workspace that cannot be processed is logged and skipped.
func (a *CLI) report(cmd *cobra.Command, cfg Config, sections report.Sections) error {
	if cfg.Organization == "" {
		return &internal.ConfigError{Err: internal.ErrRequiredOrg}
	}
	if cfg.Token == "" {
		cfg.Token = getToken(cfg.Address)
	}
	if cfg.Token == "" {
		return &internal.ConfigError{Err: internal.ErrMissingToken}
	}
	logger, err := logr.New(&cfg.Logging)
	if err != nil {
		return &internal.ConfigError{Err: err}
	}

	apiClient, err := tfhttp.NewClient(tfhttp.ClientConfig{
		URL:       cfg.Address,
		Token:     cfg.Token,
		Transport: tfhttp.NewTransport(cfg.Insecure),
		Logger:    logger,
	})
	if err != nil {
		var cfgErr *internal.ConfigError
		if errors.As(err, &cfgErr) {
			return err
		}
		return &internal.ConfigError{Err: err}
	}

	ctx := cmd.Context()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	now := a.clock.Now()
	c := &collector.Collector{
		Organization: cfg.Organization,
		Workspaces:   &workspace.Client{Client: apiClient, Logger: logger},
		Runs:         &run.Client{Client: apiClient, Logger: logger},
		Sections:     sections,
		Now:          now,
		Window:       month.NewWindow(now),
		Logger:       logger,
	}
	rep, err := c.Collect(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "collecting metrics")
	}

	report.Print(cmd.OutOrStdout(), rep)

	if cfg.CSVPath != "" && (sections.Resources || sections.Applies) {
		if err := report.WriteCSVFile(cfg.CSVPath, rep); err != nil {
			return pkgerrors.Wrap(err, "writing csv report")
		}
		logger.Info("wrote csv report", "path", cfg.CSVPath)
	}
	if cfg.MetricsPath != "" {
		if err := report.WriteTextfile(cfg.MetricsPath, rep); err != nil {
			return pkgerrors.Wrap(err, "writing metrics")
		}
		logger.Info("wrote metrics", "path", cfg.MetricsPath)
	}
	return nil
}

// getToken retrieves the API token according to the following precedence:
// (1) host-specific env var
// (2) TERRAFORM_TOKEN env var
// The --token flag, which takes precedence over both, is handled by the
// caller.
func getToken(address string) string {
	if u, err := tfhttp.ParseURL(address); err == nil {
		if token, ok := os.LookupEnv(internal.CredentialEnvKey(u.Hostname())); ok {
			return token
		}
	}
	return os.Getenv(TokenEnvVar)
}

// loadDotEnv populates the environment from a .env file, if one exists.
// Variables already set in the environment take precedence.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
