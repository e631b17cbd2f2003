package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// openOutput opens path for writing. An empty path or "-" writes to the
// command's stdout.
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

// writeOutput writes data to path, or to stdout when path is empty, and
// reports written files.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	w, err := openOutput(cmd, path)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if path != "" && path != "-" {
		printFile(path)
	}
	return nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
