// Package commands implements the CLI commands for uiforge.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/uiforge/internal/logger"
	"github.com/jmylchreest/uiforge/pkg/llm"
)

var rootCmd = &cobra.Command{
	Use:   "uiforge",
	Short: "Generate Tailwind-styled HTML components from plain-language prompts",
	Long: `uiforge asks a language model to design a UI component and returns a
short explanation plus clean, paste-ready HTML with Tailwind classes.

Model answers are filtered before you see them: markdown fences, chatty
intros and outros, and stray prose lines are removed from the code.

Examples:
  # Generate a component with the provider detected from your env vars
  uiforge generate "a pricing card with three tiers"

  # Keep a conversation going and refine the design
  uiforge generate -s new "a login form"
  uiforge generate -s <session-id> "make the button full width"

  # Save a standalone page and copy the code
  uiforge generate "a footer" -o footer.html --standalone --copy

  # Clean an answer you already have
  pbpaste | uiforge clean --stats`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.uiforge.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "only log errors")
	flags.Bool("log-json", false, "log as JSON")
	flags.StringP("format", "f", "text", "output format: text, json, jsonl, yaml")
	flags.String("history-db", "", "conversation history database (default in the user config directory)")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("log_json", flags.Lookup("log-json"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("history_db", flags.Lookup("history-db"))
}

func initConfig() {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logError("failed to load .env: %v", err)
	}

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".uiforge")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("UIFORGE")
	viper.AutomaticEnv()
	bindAPIKeyEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// bindAPIKeyEnv exposes each provider's conventional key variable as
// <provider>_api_key, alongside UIFORGE_<PROVIDER>_API_KEY.
func bindAPIKeyEnv() {
	for _, name := range llm.AvailableProviders() {
		if env := llm.EnvKey(name); env != "" {
			key := name + "_api_key"
			_ = viper.BindEnv(key, "UIFORGE_"+strings.ToUpper(key), env)
		}
	}
}

func initLogger() {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		Level: viper.GetString("log_level"),
		JSON:  viper.GetBool("log_json"),
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(rootCmd.ErrOrStderr(), format+"\n", args...)
	}
}
