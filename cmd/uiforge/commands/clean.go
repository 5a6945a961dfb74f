package commands

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/uiforge/internal/logger"
	"github.com/jmylchreest/uiforge/pkg/cleaner"
	"github.com/jmylchreest/uiforge/pkg/cleaner/markup"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Extract the markup from a model answer",
	Long: `Run the markup filter over a model answer read from a file or stdin
and print the cleaned code.

Examples:
  uiforge clean answer.txt
  pbpaste | uiforge clean --copy
  uiforge clean answer.txt --thinking --stats -o card.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	flags := cleanCmd.Flags()
	flags.Bool("stats", false, "print per-stage statistics to stderr")
	flags.Bool("copy", false, "copy the cleaned code to the clipboard")
	flags.StringP("output", "o", "", "write the cleaned code to this file")
	flags.Bool("thinking", false, "remove reasoning blocks before filtering")
}

func runClean(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	}
	raw, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	code, stats, err := cleanAnswer(cmd, raw)
	if err != nil {
		return err
	}

	if showStats, _ := cmd.Flags().GetBool("stats"); showStats {
		fmt.Fprintln(cmd.ErrOrStderr(), stats.String())
	}

	if target, _ := cmd.Flags().GetString("output"); target != "" {
		if err := writeFile(target, []byte(code+"\n")); err != nil {
			return err
		}
		logInfo("Saved %s", target)
	}

	if cp, _ := cmd.Flags().GetBool("copy"); cp {
		if err := clipboard.WriteAll(code); err != nil {
			logger.Warn("failed to copy to clipboard", "error", err)
		} else {
			logInfo("Copied!")
		}
	}

	return writeResult(cmd, cleanOutput{Code: code, Stats: stats})
}

// cleanAnswer applies the optional reasoning cleaner and then the markup filter.
func cleanAnswer(cmd *cobra.Command, raw string) (string, *markup.Stats, error) {
	if thinking, _ := cmd.Flags().GetBool("thinking"); thinking {
		var err error
		if raw, err = cleaner.NewThinking().Clean(raw); err != nil {
			return "", nil, err
		}
	}
	res := markup.New().CleanWithStats(raw)
	logger.Debug("clean complete", "reduction", fmt.Sprintf("%.1f%%", res.Stats.ReductionPercent()))
	return res.Content, res.Stats, nil
}

// cleanOutput is printed by the clean command. Text output is the code alone.
type cleanOutput struct {
	Code  string        `json:"code" yaml:"code"`
	Stats *markup.Stats `json:"stats" yaml:"stats"`
}

func (c cleanOutput) String() string {
	return c.Code
}
