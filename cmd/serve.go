package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xhad/aibench/pkg/store"
	"github.com/xhad/aibench/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored use cases over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pool, err := store.Connect(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			useCases := store.NewUseCaseStore(pool, cfg.Database.TableName)
			if err := useCases.Init(ctx); err != nil {
				return err
			}

			config := server.Config{RefreshInterval: cfg.Server.RefreshInterval}
			if cfg.Index.Enabled {
				if index := newChunkIndex(ctx, pool, cfg); index != nil {
					config.Chunks = index
				}
			}

			srv := server.New(useCases, config)
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":5000", "Listen address")
	return cmd
}
