// Package cli wires the bookingform command line: serve the HTML forms,
// render one form to a file, or fill one in the terminal.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fotosfolio/go-bookingform/internal/config"
	"github.com/fotosfolio/go-bookingform/pkg/renderers/tui"
)

type rootOptions struct {
	configPath string
	listen     string
	apiBaseURL string

	// termOpts are appended to the terminal renderer options.
	termOpts []tui.Option
	logOut   io.Writer
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{logOut: os.Stderr})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bookingform",
		Short:         "FotosFolio booking form renderer",
		Long:          "bookingform: renders booking forms from the FotosFolio booking API and submits the answers.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.listen, "listen", "", "Listen address, overrides config")
	cmd.PersistentFlags().StringVar(&opts.apiBaseURL, "api", "", "Booking API base URL, overrides config")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newRenderCmd(opts))
	cmd.AddCommand(newFillCmd(opts))
	return cmd
}

// load resolves the configuration: defaults, file, environment, then flags.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.Listen = o.listen
	}
	if flags.Changed("api") {
		cfg.APIBaseURL = o.apiBaseURL
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}

	out := o.logOut
	if out == nil {
		out = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return cfg, logger, nil
}
