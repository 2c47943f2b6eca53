package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cipherbox/cipherbox/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "cipherbox",
		Short:   "A share-link media catalog",
		Long:    "Cipherbox catalogs TeraBox share links and resolves their metadata and playable URLs.",
		Version: build.Version,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newDownloadCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
