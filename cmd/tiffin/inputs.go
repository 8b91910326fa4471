package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/tiffin/internal/cli"
	"github.com/Veraticus/tiffin/internal/common"
	"github.com/Veraticus/tiffin/internal/config"
	"github.com/Veraticus/tiffin/internal/message"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// expandPaths resolves ~, $VARS and globs. A pattern with no glob match is
// kept when it names an existing file.
func expandPaths(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		pattern = config.ExpandPath(pattern)

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}

	if len(patterns) > 0 && len(files) == 0 {
		return nil, common.NewUserError(
			"no files found matching "+strings.Join(patterns, ", "), common.ErrNoInput)
	}
	return files, nil
}

// readOrders extracts orders from chat-export files, then --text. With neither,
// pasted text is read from stdin until EOF.
func readOrders(cmd *cobra.Command, patterns []string, text string) (*message.Extraction, error) {
	ctx := cmd.Context()
	extractor := message.NewExtractor(nil)
	result := &message.Extraction{}

	files, err := expandPaths(patterns)
	if err != nil {
		return nil, err
	}

	var advance func()
	if len(files) > 1 {
		bar := cli.NewProgress(cmd.ErrOrStderr(), len(files), "Reading chats")
		advance = func() {
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ex, err := extractFile(extractor, path)
		if err != nil {
			return nil, err
		}
		slog.Debug("Read chat export", "file", path, "orders", ex.Matched, "lines", ex.Lines)
		result.Merge(ex)

		if advance != nil {
			advance()
		}
	}

	if text != "" {
		result.Merge(extractor.Extract(text))
	}

	if len(files) == 0 && text == "" {
		pasted, err := readPaste(cmd)
		if err != nil {
			return nil, err
		}
		result.Merge(extractor.Extract(pasted))
	}

	if result.Lines == 0 {
		return nil, common.ErrNoInput
	}

	slog.Info("Extracted orders",
		"orders", result.Matched,
		"unmatched", result.Unmatched,
		"malformed", result.Malformed)

	return result, nil
}

func extractFile(extractor *message.Extractor, path string) (*message.Extraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close chat export", "file", path, "error", cerr)
		}
	}()

	ex, err := extractor.ExtractReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ex, nil
}

func readPaste(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatInfo("Paste chat messages, then press Ctrl+D"))
	}

	text, err := cli.NewPasteReader(in).ReadAll(cmd.Context())
	if errors.Is(err, cli.ErrInputCancelled) {
		return "", common.NewUserError("paste canceled", err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read pasted messages: %w", err)
	}
	return text, nil
}
