package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vidindex/internal/action"
	"vidindex/internal/pipeline"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List indexed videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDispatcher(func(_ *action.Dispatcher, p *pipeline.Pipeline) error {
				videos, err := p.ListVideos(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, videos)
				}
				out := cmd.OutOrStdout()
				if len(videos) == 0 {
					fmt.Fprintln(out, "No videos indexed")
					return nil
				}
				rows := make([][]string, 0, len(videos))
				for _, v := range videos {
					rows = append(rows, []string{
						v.ID,
						v.Filename,
						fmt.Sprintf("%.2fs", v.Duration),
						fmt.Sprintf("%dx%d", v.Width, v.Height),
						v.CreatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "FILENAME", "DURATION", "RESOLUTION", "INGESTED"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}
