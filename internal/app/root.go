// Package app contains the Cobra command tree for the storefront CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"storefront_backend/internal/events"
	"storefront_backend/internal/leads"
	leadservice "storefront_backend/internal/leads/service"
	"storefront_backend/internal/output"
	"storefront_backend/internal/pricing"
	pricingservice "storefront_backend/internal/pricing/service"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/config"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"

	"github.com/spf13/cobra"
)

// App holds the state shared by every command of one invocation. Modules are
// built on first use so pure commands never touch the data directory.
type App struct {
	version string
	stdout  io.Writer
	stderr  io.Writer
	now     func() time.Time

	flagJSON    bool
	flagNoColor bool
	flagDataDir string

	cfg     *config.Config
	log     *logger.Logger
	val     *validator.Validator
	bus     *events.InMemoryBus
	leads   *leads.Module
	pricing *pricing.Module
}

// New creates an App writing to stdout and stderr.
func New(version string, stdout, stderr io.Writer) *App {
	return &App{version: version, stdout: stdout, stderr: stderr, now: time.Now}
}

// Execute is the entry point called from main. It returns the process exit code.
func Execute(version string) int {
	return New(version, os.Stdout, os.Stderr).Run(context.Background(), os.Args[1:])
}

// Run executes args and maps the outcome to an exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	a.close()
	if err != nil {
		fmt.Fprintln(a.stderr, "error:", err)
		return apperr.ExitCode(err)
	}
	return 0
}

// usageArgs marks positional argument errors as invalid input.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return apperr.Wrap(apperr.KindInvalidInput, "invalid arguments", err)
		}
		return nil
	}
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Lead funnel and checkout pricing tools for the storefront",
		Long: `storefront scores and promotes sales leads, keeps the agent activity log,
and prices carts with the store's shipping and coupon rules.

Data lives in DATA_DIR (default ./data) unless --data-dir is given.`,
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.flagNoColor {
				output.SetNoColor(true)
			} else {
				output.AutoColor(a.stdout)
			}
		},
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return apperr.Wrap(apperr.KindInvalidInput, "invalid flags", err)
	})

	root.PersistentFlags().BoolVar(&a.flagJSON, "json", false, "Output as JSON")
	root.PersistentFlags().BoolVar(&a.flagNoColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().StringVar(&a.flagDataDir, "data-dir", "", "Data directory (overrides DATA_DIR)")

	root.AddCommand(
		a.shippingCommand(),
		a.couponCommand(),
		a.leadsCommand(),
		a.activityCommand(),
	)
	return root
}

func (a *App) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, "load configuration", err)
	}
	if a.flagDataDir != "" {
		cfg.DataDir = a.flagDataDir
	}
	a.cfg = cfg
	a.log = logger.NewWithWriter(cfg.Env, a.stderr)
	a.val = validator.New()
	a.bus = events.NewInMemoryBus(a.log)
	return cfg, nil
}

func (a *App) leadsService() (*leadservice.Service, error) {
	if a.leads != nil {
		return a.leads.Service(), nil
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	mod, err := leads.NewModule(cfg, a.bus, a.val, a.log)
	if err != nil {
		return nil, err
	}
	a.leads = mod
	return mod.Service(), nil
}

func (a *App) pricingService() (*pricingservice.Service, error) {
	if a.pricing != nil {
		return a.pricing.Service(), nil
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	mod, err := pricing.NewModule(cfg, a.val, a.log)
	if err != nil {
		return nil, err
	}
	a.pricing = mod
	return mod.Service(), nil
}

func (a *App) close() {
	if a.bus != nil {
		a.bus.Wait()
	}
	if a.leads != nil {
		if err := a.leads.Close(); err != nil && a.log != nil {
			a.log.Warn("closing leads module failed", "error", err)
		}
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.stdout, args...)
}
