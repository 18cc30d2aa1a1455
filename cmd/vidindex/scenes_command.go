package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidindex/internal/action"
	"vidindex/internal/pipeline"
)

func newScenesCommand(ctx *commandContext) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "scenes <video-id>",
		Short: "Detect scene boundaries and capture keyframes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDispatcher(func(d *action.Dispatcher, _ *pipeline.Pipeline) error {
				resp := d.Dispatch(cmd.Context(), action.Request{
					Action:    action.ActionDetectScenes,
					VideoID:   args[0],
					Threshold: threshold,
				})
				if ctx.jsonOutput() {
					return emitResponse(cmd, resp)
				}
				if !resp.OK {
					return errors.New(resp.Error)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, resp.Message)
				if len(resp.Scenes) > 0 {
					rows := make([][]string, 0, len(resp.Scenes))
					for _, scene := range resp.Scenes {
						rows = append(rows, []string{
							fmt.Sprintf("%d", scene.SceneNumber),
							fmt.Sprintf("%.3fs", scene.Start),
							fmt.Sprintf("%.3fs", scene.End),
							scene.FramePath,
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"SCENE", "START", "END", "KEYFRAME"},
						rows,
						[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
					))
				}
				return nil
			})
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Content-change threshold (0 uses the configured default)")
	return cmd
}
