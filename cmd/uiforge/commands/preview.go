package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/uiforge/pkg/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Summarise generated markup and optionally render it",
	Long: `Print a structural summary of an HTML fragment read from a file or
stdin: element count, tags used, Tailwind class tokens and the first heading.

With --screenshot the fragment is wrapped in a page that loads Tailwind
and rendered in headless Chrome.

Examples:
  uiforge preview card.html
  uiforge preview card.html --screenshot card.png --width 480 --height 640
  uiforge preview card.html --document card-page.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	def := preview.DefaultOptions()
	flags := previewCmd.Flags()
	flags.String("screenshot", "", "save a PNG rendering to this path")
	flags.Int("width", def.Width, "viewport width for --screenshot")
	flags.Int("height", def.Height, "viewport height for --screenshot")
	flags.Bool("full-page", false, "capture the whole page instead of the viewport")
	flags.Duration("settle", def.Settle, "wait after load before capturing")
	flags.String("chrome", "", "Chrome/Chromium binary (default: auto-detect)")
	flags.String("document", "", "write a standalone page to this path")
}

func runPreview(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	}
	markup, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	summary, err := preview.Inspect(markup)
	if err != nil {
		return err
	}

	if docPath, _ := cmd.Flags().GetString("document"); docPath != "" {
		if err := writeFile(docPath, []byte(preview.Document(markup, summary.Heading))); err != nil {
			return err
		}
		logInfo("Saved %s", docPath)
	}

	if shot, _ := cmd.Flags().GetString("screenshot"); shot != "" {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		opts := preview.Options{}
		opts.Width, _ = cmd.Flags().GetInt("width")
		opts.Height, _ = cmd.Flags().GetInt("height")
		opts.FullPage, _ = cmd.Flags().GetBool("full-page")
		opts.Settle, _ = cmd.Flags().GetDuration("settle")
		opts.Chrome, _ = cmd.Flags().GetString("chrome")
		opts.Timeout = time.Minute

		png, err := preview.Screenshot(ctx, markup, opts)
		if err != nil {
			return err
		}
		if err := writeFile(shot, png); err != nil {
			return err
		}
		logInfo("Screenshot saved to %s", shot)
	}

	return writeResult(cmd, summary)
}
