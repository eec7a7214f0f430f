package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xhad/aibench/pkg/store"
)

func similarCmd(flags *globalFlags) *cobra.Command {
	var (
		query string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "similar",
		Short: "Find indexed article chunks close to a query",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			pool, err := store.Connect(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			index := newChunkIndex(ctx, pool, cfg)
			if index == nil {
				return errors.New("chunk index unavailable, check the embedding model and database")
			}

			chunks, err := index.SimilarText(ctx, query, limit)
			if err != nil {
				return err
			}
			if len(chunks) == 0 {
				color.Yellow("No indexed chunks yet. Run with index.enabled first.")
				return nil
			}

			for i, chunk := range chunks {
				color.Cyan("%d. %s (chunk %d)", i+1, chunk.Source, chunk.Index)
				fmt.Printf("   %s\n\n", preview(chunk.Content, 240))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Text to search for")
	cmd.Flags().IntVarP(&limit, "limit", "l", 5, "Maximum number of chunks")
	cmd.MarkFlagRequired("query")

	return cmd
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
