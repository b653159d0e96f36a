package main

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/credential"
	"github.com/mikey/llm-mail-triage/internal/di"
	"github.com/spf13/cobra"
)

func newPasswordCmd(opts *di.Options) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Manage IMAP passwords in the system keyring",
	}
	cmd.PersistentFlags().StringVarP(&account, "account", "a", "", "Configured mail account name")
	_ = cmd.MarkPersistentFlagRequired("account")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set",
			Short: "Store the password for an account",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				acct, store, err := openAccount(*opts, account)
				if err != nil {
					return err
				}

				var password string
				input := huh.NewInput().
					Title(fmt.Sprintf("Password for %s", acct.Address())).
					EchoMode(huh.EchoModePassword).
					Value(&password)
				if err := huh.NewForm(huh.NewGroup(input)).WithAccessible(opts.Accessible).Run(); err != nil {
					return err
				}

				if err := store.SetPassword(acct, password); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored password for %s\n", acct.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the stored password for an account",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				acct, store, err := openAccount(*opts, account)
				if err != nil {
					return err
				}
				if err := store.DeletePassword(acct); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed password for %s\n", acct.Name)
				return nil
			},
		},
	)

	return cmd
}

func openAccount(opts di.Options, name string) (config.MailAccount, *credential.Store, error) {
	cfg, err := config.New(opts.ConfigFile)
	if err != nil {
		return config.MailAccount{}, nil, err
	}
	accounts, err := cfg.GetMailAccounts()
	if err != nil {
		return config.MailAccount{}, nil, err
	}

	for _, acct := range accounts {
		if acct.Name != name {
			continue
		}
		store, err := credential.Open()
		if err != nil {
			return config.MailAccount{}, nil, err
		}
		return acct, store, nil
	}
	return config.MailAccount{}, nil, fmt.Errorf("unknown mail account: %s", name)
}
