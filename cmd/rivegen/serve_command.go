package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-rivegen/pkg/httpapi"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			orch, err := ctx.orchestrator("")
			if err != nil {
				return err
			}

			server, err := httpapi.New(orch,
				httpapi.WithLogger(logger),
				httpapi.WithMaxBodyBytes(cfg.MaxBodyBytes),
			)
			if err != nil {
				return err
			}

			listen := cfg.Addr
			if trimmed := strings.TrimSpace(addr); trimmed != "" {
				listen = trimmed
			}
			logger.Debug("starting server", "default_template", cfg.DefaultTemplate, "templates", len(orch.Templates()))
			return server.Start(cmd.Context(), listen)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides configuration)")
	return cmd
}
