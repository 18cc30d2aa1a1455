package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidindex/internal/action"
	"vidindex/internal/pipeline"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <video-id> <query>",
		Short: "Search a video's transcript for a phrase",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDispatcher(func(d *action.Dispatcher, _ *pipeline.Pipeline) error {
				resp := d.Dispatch(cmd.Context(), action.Request{
					Action:  action.ActionSearch,
					VideoID: args[0],
					Query:   args[1],
				})
				if ctx.jsonOutput() {
					return emitResponse(cmd, resp)
				}
				if !resp.OK {
					return errors.New(resp.Error)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, resp.Message)
				if len(resp.Segments) > 0 {
					rows := make([][]string, 0, len(resp.Segments))
					for _, seg := range resp.Segments {
						rows = append(rows, []string{
							fmt.Sprintf("%.2fs", seg.Start),
							fmt.Sprintf("%.2fs", seg.End),
							seg.Text,
							fmt.Sprintf("%.3f", seg.Confidence),
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"START", "END", "TEXT", "CONFIDENCE"},
						rows,
						[]columnAlignment{alignRight, alignRight, alignLeft, alignRight},
					))
				}
				return nil
			})
		},
	}
}
