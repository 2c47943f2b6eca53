package main

import (
	"context"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/cipherbox/cipherbox/internal/api"
	"github.com/cipherbox/cipherbox/internal/config"
	"github.com/cipherbox/cipherbox/internal/db"
	"github.com/cipherbox/cipherbox/internal/proxy"
	"github.com/cipherbox/cipherbox/internal/resolver"
	"github.com/cipherbox/cipherbox/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			mediaStore := store.NewMediaStore(database)
			tagStore := store.NewTagStore(database)
			categoryStore := store.NewCategoryStore(database)
			optionStore := store.NewAPIOptionStore(database)

			registry := proxy.DefaultRegistry(cfg.Resolver.Timeout)
			if err := optionStore.Seed(context.Background(), registry.Fields()); err != nil {
				return err
			}

			reconciler := resolver.NewReconciler(
				mediaStore,
				resolver.NewNormalizer(cfg.Resolver.Timeout),
				resolver.NewShareClient(cfg.Resolver.Timeout),
			)

			router := api.NewRouter(api.Deps{
				Media:            mediaStore,
				Tags:             tagStore,
				Categories:       categoryStore,
				Options:          optionStore,
				Reconciler:       reconciler,
				Registry:         registry,
				PreferredQuality: cfg.Resolver.PreferredQuality,
			})

			log.Printf("listening on %s", cfg.HTTP.Addr)
			return http.ListenAndServe(cfg.HTTP.Addr, router)
		},
	}
}
