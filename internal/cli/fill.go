package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	bookingform "github.com/fotosfolio/go-bookingform"
	"github.com/fotosfolio/go-bookingform/pkg/renderers/tui"
	"github.com/fotosfolio/go-bookingform/pkg/state"
)

func newFillCmd(opts *rootOptions) *cobra.Command {
	var (
		general   bool
		maxRounds int
	)
	cmd := &cobra.Command{
		Use:   "fill <templateId>",
		Short: "Fill in and submit a booking form from the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			api := cfg.Client(logger)

			sess, err := bookingform.Open(cmd.Context(), api, args[0], modeFlag(general), state.WithLogger(logger))
			if err != nil {
				return err
			}

			termOpts := append([]tui.Option{
				tui.WithUploader(api.Uploads()),
				tui.WithMaxRounds(maxRounds),
				tui.WithLogger(logger),
			}, opts.termOpts...)
			renderer, err := tui.New(termOpts...)
			if err != nil {
				return err
			}

			receipt, err := renderer.Fill(cmd.Context(), sess.Controller, sess.Env(nil, ""))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booking submitted: %s (%s)\n", receipt.BookingID, receipt.EventName)
			return nil
		},
	}
	cmd.Flags().BoolVar(&general, "general", false, "Fill the general information variant")
	cmd.Flags().IntVar(&maxRounds, "max-rounds", tui.DefaultMaxRounds, "Prompt rounds before giving up on invalid answers")
	return cmd
}
