package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-style-kit/pkg/domain"
)

func newAdviceCmd() *cobra.Command {
	var (
		query string
		flags profileFlags
	)

	cmd := &cobra.Command{
		Use:   "advice",
		Short: "Ask a fashion question and print the stylist's advice",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := newOrchestrator(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
			defer cancel()

			text := o.GetTextAdvice(ctx, domain.AdviceRequest{
				Query:      query,
				Profile:    flags.profile(),
				Credential: flags.credential(os.Getenv),
			})
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Fashion question, e.g. \"How do I style a leather jacket?\"")
	flags.register(cmd)
	return cmd
}
