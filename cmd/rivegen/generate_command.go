package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-rivegen/internal/prompt"
	"github.com/goliatone/go-rivegen/pkg/orchestrator"
	"github.com/goliatone/go-rivegen/pkg/schema"
	"github.com/goliatone/go-rivegen/pkg/triggers"
)

type generateFlags struct {
	schemaPath  string
	template    string
	out         string
	filename    string
	aliases     []string
	options     []string
	in          string
	outTrigger  string
	next        string
	asset       string
	patch       string
	preset      bool
	presetLabel string
	presetLayer int
	interactive bool
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compile a schema into a template document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.schemaPath, "schema", "s", "", "Schema file (JSON or YAML)")
	f.StringVarP(&flags.template, "template", "t", "", "Template key (see rivegen list)")
	f.StringVarP(&flags.out, "out", "o", "", "Output file or directory (default: generated filename in the working directory)")
	f.StringVar(&flags.filename, "filename", "", "Document filename (default: base name of --out)")
	f.StringArrayVar(&flags.aliases, "alias", nil, "Alias an external key to a property, external=Property (repeatable)")
	f.StringArrayVar(&flags.options, "option", nil, "Generator option key=value; JSON literals keep their type (repeatable)")
	f.StringVar(&flags.in, "in", "", "Trigger fired on play")
	f.StringVar(&flags.outTrigger, "out-trigger", "", "Trigger fired on stop")
	f.StringVar(&flags.next, "next", "", "Trigger fired on next")
	f.StringVar(&flags.asset, "asset", "", "Embed this .riv file (bundle and player templates)")
	f.StringVar(&flags.patch, "patch", "", "Schema patch document applied before generation")
	f.BoolVar(&flags.preset, "preset", false, "Write a CasparCG preset next to the document")
	f.StringVar(&flags.presetLabel, "preset-label", "", "Preset label (default: document name)")
	f.IntVar(&flags.presetLayer, "preset-layer", 0, "Preset channel layer (default from configuration)")
	f.BoolVarP(&flags.interactive, "interactive", "i", false, "Prompt for template, triggers and defaults")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, flags *generateFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	orch, err := ctx.orchestrator(flags.patch)
	if err != nil {
		return err
	}

	s, err := schema.LoadFile(flags.schemaPath)
	if err != nil {
		return err
	}

	aliases, err := parsePairs("alias", flags.aliases)
	if err != nil {
		return err
	}
	opts, err := parseOptions(flags.options)
	if err != nil {
		return err
	}
	if opts, err = assetOptions(opts, flags.asset); err != nil {
		return err
	}

	filename := strings.TrimSpace(flags.filename)
	if filename == "" && flags.out != "" && !isDir(flags.out) {
		filename = filepath.Base(flags.out)
	}

	answers := prompt.Answers{
		Template: strings.TrimSpace(flags.template),
		Filename: filename,
		Triggers: triggers.Names{In: flags.in, Out: flags.outTrigger, Next: flags.next},
		Preset:   flags.preset,
	}
	if answers.Template == "" {
		answers.Template = cfg.DefaultTemplate
	}

	if flags.interactive {
		answers, err = prompt.NewWizard(nil).Run(cmd.Context(), orch.Templates(), s, answers)
		if err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return errors.New("generate aborted")
			}
			return err
		}
	}

	req := orchestrator.Request{
		Template: answers.Template,
		Schema:   s,
		Filename: answers.Filename,
		AliasMap: aliases,
		Options:  answers.Options(opts),
	}
	if answers.Preset {
		req.Preset = &orchestrator.PresetRequest{
			Label: flags.presetLabel,
			Layer: flags.presetLayer,
		}
	}

	result, err := orch.Compile(cmd.Context(), req)
	if err != nil {
		return err
	}

	docPath := outputPath(flags.out, result.Document.Filename)
	if err := writeOutput(docPath, result.Document.Content); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "wrote %s (%s)\n", docPath, result.Template)

	if result.Preset != nil {
		presetPath := filepath.Join(filepath.Dir(docPath), result.Preset.Filename)
		if err := writeOutput(presetPath, result.Preset.Content); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s (preset %s)\n", presetPath, result.Preset.Name)
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
	}
	return nil
}
