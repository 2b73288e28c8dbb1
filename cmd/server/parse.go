package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sayso-interpreter/internal/service/formatter"
)

func (a *app) parseCmd() *cobra.Command {
	var now string
	cmd := &cobra.Command{
		Use:   "parse [text]",
		Short: "Parse one message and print the result as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newMessageService(a.cfg, a.logger)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			ref, err := svc.ReferenceTime(now)
			if err != nil {
				return err
			}
			res := svc.Interpreter().Parse(text, ref)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			if !res.OK() {
				return errors.New(strings.Join(res.Messages(), "; "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&now, "now", "", "reference time, RFC3339 or YYYY-MM-DD (default: current time)")
	return cmd
}

func (a *app) intentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intents",
		Short: "List the loaded intents and their usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newMessageService(a.cfg, a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.New(nil).FormatHelp(svc.Interpreter().Intents()))
			return nil
		},
	}
}
