package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/linkscout/linkscout/internal/auth"
	"github.com/linkscout/linkscout/internal/core"
	"github.com/linkscout/linkscout/internal/observability"
)

var (
	loginAccount   string
	loginLiAt      string
	loginJSession  string
	loginAcceptTOS bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store session cookies for an account",
	Long: `Store the li_at and JSESSIONID session cookies in the OS keyring.
Copy the cookie values from your browser's developer tools while logged in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureTOSAccepted(loginAcceptTOS); err != nil {
			return err
		}

		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}

		liAt := strings.TrimSpace(loginLiAt)
		if liAt == "" {
			liAt, err = promptSecret("li_at cookie: ")
			if err != nil {
				return err
			}
		}
		if !auth.ValidateCookieFormat(liAt) {
			return fmt.Errorf("li_at cookie looks invalid (too short)")
		}

		jsession := strings.TrimSpace(loginJSession)
		if jsession == "" {
			jsession, err = promptSecret("JSESSIONID cookie (optional): ")
			if err != nil {
				return err
			}
		}

		cookies := auth.NewCookieStore(cfg.Auth.AccountsFile)
		if err := cookies.Store(loginAccount, core.TokenBundle{
			LiAt:       liAt,
			JSessionID: strings.TrimSpace(jsession),
		}); err != nil {
			return err
		}

		observability.CLILogger.Info("Stored credentials", zap.String("account", loginAccount))
		fmt.Printf("Credentials stored for account %q.\n", loginAccount)
		return nil
	},
}

func promptSecret(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	value, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(value), nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginAccount, "account", "default", "Account name for the stored cookies")
	loginCmd.Flags().StringVar(&loginLiAt, "li-at", "", "li_at cookie value (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginJSession, "jsessionid", "", "JSESSIONID cookie value (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginAcceptTOS, "yes", false, "Accept the terms of service without prompting")
}
