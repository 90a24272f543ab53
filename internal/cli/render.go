package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	bookingform "github.com/fotosfolio/go-bookingform"
	"github.com/fotosfolio/go-bookingform/pkg/model"
	"github.com/fotosfolio/go-bookingform/pkg/renderers/tui"
	"github.com/fotosfolio/go-bookingform/pkg/renderers/vanilla"
)

func modeFlag(general bool) model.Mode {
	if general {
		return model.ModeGeneralInformation
	}
	return model.ModeEventBooking
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		general  bool
		output   string
		renderer string
		format   string
		action   string
	)
	cmd := &cobra.Command{
		Use:   "render <templateId>",
		Short: "Render one booking form without serving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			templateID := args[0]

			htmlOpts := []vanilla.Option{vanilla.WithAssetPrefix(cfg.AssetPrefix), vanilla.WithLogger(logger)}
			if cfg.TemplatesDir != "" {
				htmlOpts = append(htmlOpts, vanilla.WithTemplatesDir(cfg.TemplatesDir))
			}
			termOpts := append([]tui.Option{tui.WithOutputFormat(tui.OutputFormat(format)), tui.WithLogger(logger)}, opts.termOpts...)
			registry, err := bookingform.NewRenderers(htmlOpts, termOpts)
			if err != nil {
				return err
			}
			r, err := registry.Get(renderer)
			if err != nil {
				return fmt.Errorf("%w (available: %v)", err, registry.List())
			}

			if action == "" {
				action = "/booking/" + templateID
			}
			out, renderErr := bookingform.RenderForm(cmd.Context(), cfg.Client(logger), r, templateID, modeFlag(general), action, cfg.SiteURL)
			if out == nil {
				return renderErr
			}

			if output != "" {
				if err := os.WriteFile(output, out, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", output)
			} else if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}
			return renderErr
		},
	}
	cmd.Flags().BoolVar(&general, "general", false, "Render the general information variant")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().StringVarP(&renderer, "renderer", "r", vanilla.Name, "Renderer to use (vanilla, tui)")
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatPrettyText), "Terminal renderer output format (pretty, json)")
	cmd.Flags().StringVar(&action, "action", "", "Form action URL (defaults to /booking/<templateId>)")
	return cmd
}
