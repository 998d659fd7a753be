package cmd

import (
	"github.com/fulmenhq/gofulmen/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	appconfig "github.com/linkscout/linkscout/internal/config"
	"github.com/linkscout/linkscout/internal/observability"
)

const binaryName = "linkscout"

var (
	cfgFile string
	verbose bool

	// Version info set by main package via ldflags.
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by the main package to set version information.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var rootCmd = &cobra.Command{
	Use:   binaryName,
	Short: "Search a professional network's connections from the command line",
	Long: `linkscout searches a professional network's connections through its
unofficial cookie-authenticated API, stores results locally, and exports
them to CSV. Outbound actions are bounded by a persisted daily quota with
jittered spacing.

Use the subcommands to perform specific operations.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/linkscout/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	observability.InitCLILogger(binaryName, verbose)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if appConfigDir := config.GetAppConfigDir(binaryName); appConfigDir != "" {
			viper.AddConfigPath(appConfigDir)
		}
		viper.AddConfigPath(appconfig.DefaultDataDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LINKSCOUT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			observability.CLILogger.Debug("Using config file", zap.String("path", viper.ConfigFileUsed()))
		}
	} else if verbose {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			observability.CLILogger.Debug("No config file found, using defaults and environment variables")
		} else {
			observability.CLILogger.Warn("Error reading config file", zap.Error(err))
		}
	}

	setDefaults()
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("store.driver", "libsql")
	viper.SetDefault("store.path", appconfig.DefaultStorePath())

	viper.SetDefault("rate_limit.max_actions_per_day", 25)
	viper.SetDefault("rate_limit.min_delay", "60s")
	viper.SetDefault("rate_limit.max_delay", "120s")

	viper.SetDefault("auth.accounts_file", appconfig.DefaultAccountsFile())

	viper.SetDefault("logging.level", "info")
}
