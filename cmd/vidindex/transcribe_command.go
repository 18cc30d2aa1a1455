package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidindex/internal/action"
	"vidindex/internal/pipeline"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe <video-id>",
		Short: "Run speech recognition over a stored video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDispatcher(func(d *action.Dispatcher, _ *pipeline.Pipeline) error {
				resp := d.Dispatch(cmd.Context(), action.Request{
					Action:  action.ActionTranscribe,
					VideoID: args[0],
				})
				if ctx.jsonOutput() {
					return emitResponse(cmd, resp)
				}
				if !resp.OK {
					return errors.New(resp.Error)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, resp.Message)
				if resp.Transcript != "" {
					fmt.Fprintln(out)
					fmt.Fprintln(out, resp.Transcript)
				}
				return nil
			})
		},
	}
}
