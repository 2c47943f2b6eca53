package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cipherbox/cipherbox/internal/resolver"
)

func newResolveCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "resolve <share-url>",
		Short: "Resolve metadata for a share link and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := resolver.NewReconciler(
				nil,
				resolver.NewNormalizer(timeout),
				resolver.NewShareClient(timeout),
			)

			meta, err := rec.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 20*time.Second, "per-request timeout")
	return cmd
}
