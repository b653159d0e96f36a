package main

import (
	"context"
	"fmt"

	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/di"
	"github.com/spf13/cobra"
)

// entryKind describes one of the per-account entry collections
type entryKind struct {
	use    string
	noun   string
	list   func(ctx context.Context, rules core.RuleStore, hints core.ClassificationStore, account string) ([]string, error)
	add    func(ctx context.Context, rules core.RuleStore, hints core.ClassificationStore, account, value string) error
	remove func(ctx context.Context, rules core.RuleStore, hints core.ClassificationStore, account, value string) error
}

var rulesKind = entryKind{
	use:  "rules",
	noun: "rule",
	list: func(ctx context.Context, rules core.RuleStore, _ core.ClassificationStore, account string) ([]string, error) {
		return rules.GetAllRules(ctx, account)
	},
	add: func(ctx context.Context, rules core.RuleStore, _ core.ClassificationStore, account, value string) error {
		return rules.AddRule(ctx, value, account)
	},
	remove: func(ctx context.Context, rules core.RuleStore, _ core.ClassificationStore, account, value string) error {
		return rules.RemoveRule(ctx, value, account)
	},
}

var hintsKind = entryKind{
	use:  "hints",
	noun: "classification hint",
	list: func(ctx context.Context, _ core.RuleStore, hints core.ClassificationStore, account string) ([]string, error) {
		return hints.GetAllClassifications(ctx, account)
	},
	add: func(ctx context.Context, _ core.RuleStore, hints core.ClassificationStore, account, value string) error {
		return hints.AddClassification(ctx, value, account)
	},
	remove: func(ctx context.Context, _ core.RuleStore, hints core.ClassificationStore, account, value string) error {
		return hints.RemoveClassification(ctx, value, account)
	},
}

func newEntriesCmd(opts *di.Options, kind entryKind) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   kind.use,
		Short: fmt.Sprintf("Manage an account's %ss", kind.noun),
	}
	cmd.PersistentFlags().StringVarP(&account, "account", "a", "default", "Account the entries belong to")

	withStores := func(fn func(rules core.RuleStore, hints core.ClassificationStore) error) error {
		container, err := di.BuildContainer(*opts)
		if err != nil {
			return err
		}
		defer closeResources(container)
		return container.Invoke(fn)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: fmt.Sprintf("List %ss", kind.noun),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withStores(func(rules core.RuleStore, hints core.ClassificationStore) error {
					entries, err := kind.list(cmd.Context(), rules, hints, account)
					if err != nil {
						return err
					}
					if len(entries) == 0 {
						fmt.Fprintf(cmd.OutOrStdout(), "No %ss for %s\n", kind.noun, account)
						return nil
					}
					for i, entry := range entries {
						fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, entry)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "add <text>",
			Short: fmt.Sprintf("Add a %s", kind.noun),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStores(func(rules core.RuleStore, hints core.ClassificationStore) error {
					return kind.add(cmd.Context(), rules, hints, account, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "remove <text>",
			Short: fmt.Sprintf("Remove a %s", kind.noun),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStores(func(rules core.RuleStore, hints core.ClassificationStore) error {
					return kind.remove(cmd.Context(), rules, hints, account, args[0])
				})
			},
		},
	)

	return cmd
}
