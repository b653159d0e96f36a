package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/adapters/console"
	"github.com/mikey/llm-mail-triage/internal/adapters/mail"
	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/di"
	"github.com/spf13/cobra"
)

func newClassifyCmd(opts *di.Options) *cobra.Command {
	var (
		inputFile string
		account   string
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a single message and print the recommended action",
		Long:  "Classify reads an RFC 5322 message from a file or stdin, classifies it and prints the recommended action. Nothing is executed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := di.BuildContainer(*opts)
			if err != nil {
				return err
			}
			defer closeResources(container)

			return container.Invoke(func(
				logger *zap.Logger,
				service *core.TriageService,
				render *console.Renderer,
			) error {
				defer logger.Sync()

				var reader io.Reader = cmd.InOrStdin()
				if inputFile != "" {
					file, err := os.Open(inputFile)
					if err != nil {
						return fmt.Errorf("failed to open input file: %w", err)
					}
					defer file.Close()
					reader = file
				}

				email, err := mail.ParseMessage(reader)
				if err != nil {
					return err
				}

				result, err := service.Triage(cmd.Context(), account, email)
				if err != nil {
					return err
				}
				render.Result(result)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Input email file (stdin if not specified)")
	cmd.Flags().StringVarP(&account, "account", "a", "default", "Account whose rules and hints apply")

	return cmd
}
