package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidindex/internal/action"
	"vidindex/internal/pipeline"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <video-id>",
		Short: "Show a video's metadata and processing state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDispatcher(func(d *action.Dispatcher, _ *pipeline.Pipeline) error {
				resp := d.Dispatch(cmd.Context(), action.Request{
					Action:  action.ActionGetInfo,
					VideoID: args[0],
				})
				if ctx.jsonOutput() {
					return emitResponse(cmd, resp)
				}
				if !resp.OK {
					return errors.New(resp.Error)
				}
				out := cmd.OutOrStdout()
				if resp.Info != nil {
					info := resp.Info
					rows := [][]string{
						{"ID", info.Video.VideoID},
						{"Filename", info.Video.Filename},
						{"Duration", fmt.Sprintf("%.2fs", info.Video.Duration)},
						{"FPS", fmt.Sprintf("%.3f", info.Video.FPS)},
						{"Resolution", fmt.Sprintf("%dx%d", info.Video.Width, info.Video.Height)},
						{"Ingested", info.Video.CreatedAt},
						{"Status", info.Status},
						{"Transcript segments", fmt.Sprintf("%d", info.SegmentCount)},
						{"Scenes", fmt.Sprintf("%d", info.SceneCount)},
						{"File", info.VideoPath},
					}
					fmt.Fprintln(out, renderTable(
						[]string{"FIELD", "VALUE"},
						rows,
						[]columnAlignment{alignLeft, alignLeft},
					))
				}
				return nil
			})
		},
	}
}
