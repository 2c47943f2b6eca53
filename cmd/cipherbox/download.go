package main

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cipherbox/cipherbox/internal/extract"
	"github.com/cipherbox/cipherbox/internal/fetch"
	"github.com/cipherbox/cipherbox/internal/proxy"
)

func newDownloadCmd() *cobra.Command {
	var (
		via     string
		quality string
		output  string
		quiet   bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "download <share-url>",
		Short: "Resolve a playable URL through a proxy resolver and download it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := proxy.DefaultRegistry(timeout)
			spec, err := registry.Get(via)
			if err != nil {
				return fmt.Errorf("%w (known: %s)", err, strings.Join(registry.Names(), ", "))
			}

			raw, err := spec.Resolver.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			playable, ok := extract.PlayableURL(raw, quality)
			if !ok {
				return fmt.Errorf("%s returned no playable URL", via)
			}

			dest := output
			if dest == "" {
				dest = path.Base(strings.SplitN(playable, "?", 2)[0])
				if dest == "" || dest == "." || dest == "/" {
					dest = "download.bin"
				}
			}

			// No timeout on the transfer itself; large files take as long as
			// they take.
			return fetch.Download(cmd.Context(), playable, dest, fetch.Options{Quiet: quiet})
		},
	}

	cmd.Flags().StringVar(&via, "via", "TeraFast", "proxy resolver to use")
	cmd.Flags().StringVar(&quality, "quality", "720p", "preferred stream quality")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the progress bar")
	cmd.Flags().DurationVar(&timeout, "timeout", 20*time.Second, "resolver request timeout")
	return cmd
}
