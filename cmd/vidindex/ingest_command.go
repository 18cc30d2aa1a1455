package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidindex/internal/action"
	"vidindex/internal/pipeline"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var videoID string

	cmd := &cobra.Command{
		Use:   "ingest <video-path>",
		Short: "Transcode a video into the library and index its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDispatcher(func(d *action.Dispatcher, _ *pipeline.Pipeline) error {
				resp := d.Dispatch(cmd.Context(), action.Request{
					Action:    action.ActionUpload,
					VideoPath: args[0],
					VideoID:   videoID,
				})
				if ctx.jsonOutput() {
					return emitResponse(cmd, resp)
				}
				if !resp.OK {
					return errors.New(resp.Error)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, resp.Message)
				if resp.Video != nil {
					fmt.Fprintln(out, renderTable(
						[]string{"ID", "FILENAME", "DURATION", "FPS", "RESOLUTION"},
						[][]string{{
							resp.Video.VideoID,
							resp.Video.Filename,
							fmt.Sprintf("%.2fs", resp.Video.Duration),
							fmt.Sprintf("%.3f", resp.Video.FPS),
							fmt.Sprintf("%dx%d", resp.Video.Width, resp.Video.Height),
						}},
						[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
					))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&videoID, "id", "", "Use this video id instead of deriving one")
	return cmd
}
