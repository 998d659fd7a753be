package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linkscout/linkscout/internal/auth"
)

var logoutAccount string

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored session cookies for an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}

		cookies := auth.NewCookieStore(cfg.Auth.AccountsFile)
		if err := cookies.Delete(logoutAccount); err != nil {
			return err
		}

		fmt.Printf("Removed credentials for account %q.\n", logoutAccount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
	logoutCmd.Flags().StringVar(&logoutAccount, "account", "default", "Account name to remove")
}
