package commands

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/uiforge/internal/logger"
	"github.com/jmylchreest/uiforge/pkg/cleaner"
	"github.com/jmylchreest/uiforge/pkg/cleaner/markup"
	"github.com/jmylchreest/uiforge/pkg/designer"
	"github.com/jmylchreest/uiforge/pkg/history"
	"github.com/jmylchreest/uiforge/pkg/llm"
	"github.com/jmylchreest/uiforge/pkg/preview"
)

// newSessionKeyword asks generate to start a fresh session.
const newSessionKeyword = "new"

var generateCmd = &cobra.Command{
	Use:   "generate [prompt...]",
	Short: "Design a UI component from a prompt",
	Long: `Ask the model for a UI component and print the explanation and code.

The prompt is taken from the arguments, or from stdin when none are given.
Prompts are limited to 500 characters.

Examples:
  uiforge generate "a dark navbar with a search box"
  uiforge generate -p anthropic -m claude-sonnet-4-20250514 "a settings page"
  uiforge generate -s new "a contact form"         # prints the session id
  uiforge generate -s 3f0c... "add a phone field"  # continues the session
  uiforge generate "a hero" -f json > hero.json
  uiforge generate "a modal" -o designs/ --standalone --screenshot modal.png`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	flags := generateCmd.Flags()

	// LLM settings
	flags.StringP("provider", "p", "", "LLM provider: openrouter, anthropic, openai, gemini, ollama (auto-detects from env vars)")
	flags.StringP("model", "m", "", "model name (provider-specific)")
	flags.StringP("api-key", "k", "", "API key (or use env var)")
	flags.String("base-url", "", "custom API base URL")
	flags.Int("max-retries", 2, "retries when the provider is rate limited")
	flags.Duration("timeout", 2*time.Minute, "overall request timeout")
	flags.Float64("rate-limit", 0, "max requests per second to the provider (0=unlimited)")

	// Conversation
	flags.StringP("session", "s", "", `history session to load and append to ("new" starts one)`)
	flags.Int("history-limit", 10, "max earlier turns sent with the prompt (0=all)")

	// Output
	flags.StringP("output", "o", "", "also write the code to this file or directory")
	flags.Bool("standalone", false, "wrap --output in a full page that loads Tailwind")
	flags.Bool("copy", false, "copy the code to the clipboard")
	flags.String("screenshot", "", "render the code in headless Chrome and save a PNG here")
	flags.Bool("raw", false, "skip cleaning of the model answer")

	// Bind to viper
	_ = viper.BindPFlag("provider", flags.Lookup("provider"))
	_ = viper.BindPFlag("model", flags.Lookup("model"))
	_ = viper.BindPFlag("api_key", flags.Lookup("api-key"))
	_ = viper.BindPFlag("base_url", flags.Lookup("base-url"))
	_ = viper.BindPFlag("max_retries", flags.Lookup("max-retries"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("rate_limit", flags.Lookup("rate-limit"))
	_ = viper.BindPFlag("history_limit", flags.Lookup("history-limit"))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	prompt := strings.Join(args, " ")
	if strings.TrimSpace(prompt) == "" {
		in, err := readInput(cmd, "")
		if err != nil {
			return err
		}
		prompt = in
	}

	timeout := viper.GetDuration("timeout")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, timeout)
		defer cancelTimeout()
	}

	chain, err := buildProviderChain(chainOptions{
		Preferred: viper.GetString("provider"),
		Model:     viper.GetString("model"),
		APIKey:    viper.GetString("api_key"),
		BaseURL:   viper.GetString("base_url"),
		Timeout:   timeout,
	})
	if err != nil {
		logger.Error("failed to build provider chain", "error", err)
		return err
	}
	logger.Debug("provider chain built", "chain", chain.Provider.Name())

	d := designer.New(chain.Provider, designerOptions(cmd, chain)...)

	req := designer.Request{Prompt: prompt}

	// Load conversation history
	var store *history.Store
	session, _ := cmd.Flags().GetString("session")
	if session != "" {
		store, err = openHistory()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if session == newSessionKeyword {
			session = history.NewSessionID()
			logInfo("Session: %s", session)
		}
		turns, err := store.Turns(ctx, session, viper.GetInt("history_limit"))
		if err != nil {
			return err
		}
		req.ConversationHistory = toDesignerTurns(turns)
		logger.Debug("history loaded", "session", session, "turns", len(turns))
	}

	res, err := d.Generate(ctx, req)
	if err != nil {
		return reportGenerateError(cmd, err)
	}

	if store != nil {
		if err := saveExchange(ctx, store, session, req.Prompt, res.FullResponse); err != nil {
			logger.Warn("failed to save history", "session", session, "error", err)
		}
	}

	if err := deliver(ctx, cmd, req.Prompt, res); err != nil {
		return err
	}
	return writeResult(cmd, res)
}

func designerOptions(cmd *cobra.Command, chain *providerChain) []designer.Option {
	opts := []designer.Option{
		designer.WithMaxRetries(viper.GetInt("max_retries")),
		designer.WithObserver(llm.LogObserver{}),
	}
	if rps := viper.GetFloat64("rate_limit"); rps > 0 {
		opts = append(opts, designer.WithRateLimit(rps, 1))
	}
	if chain.Primary.MaxTokens > 0 {
		opts = append(opts, designer.WithMaxTokens(chain.Primary.MaxTokens))
	}
	if chain.Primary.Temperature > 0 {
		opts = append(opts, designer.WithTemperature(chain.Primary.Temperature))
	}
	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		noop := cleaner.NewNoop()
		opts = append(opts, designer.WithPreCleaner(noop), designer.WithCleaner(noop))
	}
	return opts
}

// reportGenerateError renders the failure body and returns a short error for the exit status.
func reportGenerateError(cmd *cobra.Command, err error) error {
	de := designer.AsError(err)
	logger.Debug("generate failed", "kind", de.Kind, "error", err)

	if viper.GetString("format") == "text" || viper.GetString("format") == "" {
		logError("%s", de.Message)
		if de.Debug != nil && viper.GetBool("debug") {
			fmt.Fprintf(cmd.ErrOrStderr(), "\n--- raw response ---\n%s\n--- cleaned code ---\n%s\n",
				de.Debug.RawResponse, de.Debug.CleanedCode)
		}
	} else if werr := writeResult(cmd, de.Response()); werr != nil {
		logger.Error("failed to write error", "error", werr)
	}
	return fmt.Errorf("%s (status %d)", de.Kind, de.Status())
}

// toDesignerTurns converts stored turns, dropping assistant turns at the
// start so a truncated history still opens with the user.
func toDesignerTurns(turns []history.Turn) []designer.Turn {
	for len(turns) > 0 && turns[0].Role != "user" {
		turns = turns[1:]
	}
	out := make([]designer.Turn, 0, len(turns))
	for _, t := range turns {
		out = append(out, designer.Turn{Role: t.Role, Content: t.Content})
	}
	return out
}

func saveExchange(ctx context.Context, store *history.Store, session, prompt, answer string) error {
	_, err := store.AppendExchange(ctx, session, strings.TrimSpace(prompt), answer)
	return err
}

// deliver performs the download, copy and screenshot actions.
func deliver(ctx context.Context, cmd *cobra.Command, prompt string, res *designer.Result) error {
	if target, _ := cmd.Flags().GetString("output"); target != "" {
		summary, err := preview.Inspect(res.Code)
		if err != nil {
			return err
		}
		content := res.Code + "\n"
		if standalone, _ := cmd.Flags().GetBool("standalone"); standalone {
			content = preview.Document(res.Code, summary.Heading)
		}
		path := outputPath(target, preview.Filename(summary, prompt))
		if err := writeFile(path, []byte(content)); err != nil {
			return err
		}
		logInfo("Saved %s", path)
	}

	if cp, _ := cmd.Flags().GetBool("copy"); cp {
		// The clipboard gets the code run through the filter once more.
		if err := clipboard.WriteAll(markup.Clean(res.Code)); err != nil {
			logger.Warn("failed to copy to clipboard", "error", err)
		} else {
			logInfo("Copied!")
		}
	}

	if shot, _ := cmd.Flags().GetString("screenshot"); shot != "" {
		png, err := preview.Screenshot(ctx, res.Code, preview.Options{})
		if err != nil {
			return fmt.Errorf("screenshot failed: %w", err)
		}
		if err := writeFile(shot, png); err != nil {
			return err
		}
		logInfo("Screenshot saved to %s", shot)
	}
	return nil
}

func openHistory() (*history.Store, error) {
	path := viper.GetString("history_db")
	if path == "" {
		var err error
		if path, err = history.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return history.Open(path)
}
