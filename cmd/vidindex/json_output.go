package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"vidindex/internal/action"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emitResponse writes the dispatch response as JSON and converts a failed
// action into a non-zero exit.
func emitResponse(cmd *cobra.Command, resp action.Response) error {
	if err := writeJSON(cmd, resp); err != nil {
		return err
	}
	if !resp.OK {
		return errors.New(resp.Error)
	}
	return nil
}
