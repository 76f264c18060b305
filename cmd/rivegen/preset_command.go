package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-rivegen/pkg/orchestrator"
	"github.com/goliatone/go-rivegen/pkg/schema"
)

func newPresetCommand(ctx *commandContext) *cobra.Command {
	var (
		schemaPath string
		filename   string
		label      string
		layer      int
		out        string
		patch      string
	)

	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Write a CasparCG preset for an already generated document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := ctx.orchestrator(patch)
			if err != nil {
				return err
			}
			s, err := schema.LoadFile(schemaPath)
			if err != nil {
				return err
			}

			p, err := orch.Preset(cmd.Context(), s, filename, orchestrator.PresetRequest{
				Label: label,
				Layer: layer,
			})
			if err != nil {
				return err
			}

			path := outputPath(out, p.Filename)
			if out == "" {
				path = filepath.Join(filepath.Dir(filename), p.Filename)
			}
			if err := writeOutput(path, p.Content); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (preset %s)\n", path, p.Name)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&schemaPath, "schema", "s", "", "Schema file (JSON or YAML)")
	f.StringVar(&filename, "filename", "", "Document the preset points at")
	f.StringVar(&label, "label", "", "Preset label (default: document name)")
	f.IntVar(&layer, "layer", 0, "Channel layer (default from configuration)")
	f.StringVarP(&out, "out", "o", "", "Output file or directory (default: next to --filename)")
	f.StringVar(&patch, "patch", "", "Schema patch document applied before serialisation")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("filename")

	return cmd
}
