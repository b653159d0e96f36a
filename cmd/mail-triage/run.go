package main

import (
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/di"
	"github.com/mikey/llm-mail-triage/internal/ports"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *di.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process unread email interactively (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, *opts)
		},
	}
}

func runSession(cmd *cobra.Command, opts di.Options) error {
	container, err := di.BuildContainer(opts)
	if err != nil {
		return err
	}
	defer closeResources(container)

	return container.Invoke(func(logger *zap.Logger, runner ports.TriageRunner) error {
		defer logger.Sync()
		return runner.Run(cmd.Context())
	})
}
