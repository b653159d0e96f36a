package main

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/di"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	opts := &di.Options{}

	cmd := &cobra.Command{
		Use:           "mail-triage",
		Short:         "Triage unread email with a language model",
		Long:          "mail-triage classifies unread email with a language model and recommends an action for each message based on your own rules.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, *opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "Path to config file")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable verbose logging")
	flags.BoolVar(&opts.JSONLog, "json-log", false, "Output logs in JSON format")
	flags.BoolVar(&opts.Accessible, "accessible", false, "Use accessible prompts for screen readers")
	flags.StringVar(&opts.Provider, "provider", "", "LLM provider (ollama, openai, gemini, bedrock)")
	flags.StringVar(&opts.Model, "model", "", "Model name for the selected provider")

	cmd.AddCommand(
		newRunCmd(opts),
		newClassifyCmd(opts),
		newEntriesCmd(opts, rulesKind),
		newEntriesCmd(opts, hintsKind),
		newPasswordCmd(opts),
	)

	return cmd
}

// closeResources releases whatever the container opened for the command
func closeResources(c *dig.Container) {
	_ = c.Invoke(func(logger *zap.Logger, cleanup *di.Cleanup) {
		cleanup.Close(logger)
	})
}
