package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	markdownsigners "github.com/nathantilsley/cla-val/internal/cla/adapters/markdown_signers"
	"github.com/nathantilsley/cla-val/internal/platform/httpclient"
	"github.com/nathantilsley/cla-val/internal/platform/logger"
)

func newSignersCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "signers URL",
		Short: "Print the signers listed in an agreement record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewWithWriter(cmd.ErrOrStderr(), "warn", logger.ColorEnabled())
			source := markdownsigners.New(httpclient.New(timeout), log)

			set, err := source.FetchSigners(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, login := range set.Sorted() {
				fmt.Fprintln(cmd.OutOrStdout(), login)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	return cmd
}
