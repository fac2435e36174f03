// Command odatafetch fetches one entity set from an OData-style service and
// prints its "value" field.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gostratum/core/configx"
	"github.com/gostratum/odata"
	odatafx "github.com/gostratum/odata/fx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Illustrative placeholders used when neither configuration nor flags supply a
// value. Credentials have no placeholder.
const (
	placeholderBaseURL  = "https://your-sap-system-url/odata/service"
	placeholderEndpoint = "entity"
)

var errMissingCredentials = errors.New("missing username or password: set odata.username/odata.password or --username/--password")

type flags struct {
	baseURL  string
	username string
	password string
	endpoint string
	timeout  time.Duration
	logLevel string
	envFile  string
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "odatafetch",
		Short: "Fetch an entity set from an OData service",
		Long: `Fetch an entity set from an OData-style service using HTTP Basic
authentication and print the JSON rendering of its "value" field.

Settings are read from configuration under the "odata" prefix (an optional
.env file is loaded first). Flags that are set explicitly take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.baseURL, "base-url", placeholderBaseURL, "Service root URL")
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "Basic auth username")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "Basic auth password")
	cmd.Flags().StringVarP(&f.endpoint, "endpoint", "e", placeholderEndpoint, "Endpoint appended to the base URL")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Request timeout (0 disables)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&f.envFile, "env-file", ".env", "Environment file loaded before configuration (optional unless set)")

	return cmd
}

func run(cmd *cobra.Command, f *flags) error {
	if err := godotenv.Load(f.envFile); err != nil && cmd.Flags().Changed("env-file") {
		return fmt.Errorf("load env file: %w", err)
	}

	log, err := newLogger(f.logLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	var (
		cfg    odata.Config
		client odata.Client
	)
	app := fx.New(
		fx.NopLogger,
		fx.Provide(configx.New),
		odatafx.Module(),
		fx.Decorate(func(c odata.Config) odata.Config {
			return f.overlay(cmd, c)
		}),
		fx.Populate(&cfg, &client),
	)
	if err := app.Err(); err != nil {
		return fmt.Errorf("build client: %w", err)
	}
	if cfg.Username == "" || cfg.Password == "" {
		return errMissingCredentials
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Debug("fetching entity data",
		zap.String("base_url", client.BaseURL()),
		zap.String("endpoint", cfg.Endpoint),
	)
	if err := fetch(ctx, client, cfg.Endpoint, cmd.OutOrStdout()); err != nil {
		log.Debug("fetch failed", zap.Error(err))
		return err
	}
	return nil
}

// overlay applies explicitly set flags, and flag defaults for anything the
// configuration left empty.
func (f *flags) overlay(cmd *cobra.Command, c odata.Config) odata.Config {
	pick := func(name, current, flagValue string) string {
		if cmd.Flags().Changed(name) || current == "" {
			return flagValue
		}
		return current
	}
	c.BaseURL = pick("base-url", c.BaseURL, f.baseURL)
	c.Username = pick("username", c.Username, f.username)
	c.Password = pick("password", c.Password, f.password)
	c.Endpoint = pick("endpoint", c.Endpoint, f.endpoint)
	if cmd.Flags().Changed("timeout") {
		c.Timeout = f.timeout
	}
	return c
}
