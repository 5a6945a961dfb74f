package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/uiforge/internal/output"
)

// readInput reads the named file, or stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) //#nosec G304 -- CLI tool reads user-specified input file
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// newWriter creates an output writer for the --format flag on the command's stdout.
func newWriter(cmd *cobra.Command) (output.Writer, error) {
	format, err := output.ParseFormat(viper.GetString("format"))
	if err != nil {
		return nil, err
	}
	return output.NewWriter(cmd.OutOrStdout(), format)
}

// writeResult writes a single value in the selected format.
func writeResult(cmd *cobra.Command, v any) error {
	w, err := newWriter(cmd)
	if err != nil {
		return err
	}
	if err := w.Write(v); err != nil {
		return err
	}
	return w.Close()
}

// outputPath resolves --output. A directory (existing, or written with a
// trailing separator) receives name inside it.
func outputPath(target, name string) string {
	if strings.HasSuffix(target, string(os.PathSeparator)) || strings.HasSuffix(target, "/") {
		return filepath.Join(target, name)
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return filepath.Join(target, name)
	}
	return target
}

// writeFile writes content to path, creating parent directories.
func writeFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil { //#nosec G306 -- user-facing output file
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
