package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linkscout/linkscout/internal/auth"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List accounts with stored session cookies",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}

		cookies := auth.NewCookieStore(cfg.Auth.AccountsFile)
		accounts, err := cookies.ListAccounts()
		if err != nil {
			return err
		}

		if len(accounts) == 0 {
			fmt.Println("No accounts stored. Run 'linkscout login' to add one.")
			return nil
		}

		for _, account := range accounts {
			fmt.Println(account)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountsCmd)
}
