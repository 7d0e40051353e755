package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sentorder/internal/logger"
	"github.com/custodia-labs/sentorder/internal/normalisers"
)

// errNoInput is returned when neither a file nor piped text is given.
var errNoInput = errors.New("no input: pass a file or pipe text on stdin")

// inputNormalisers strips markup from files by extension.
var inputNormalisers = normalisers.Default()

// readInput reads the file named by args, or stdin when no file (or "-")
// is given. Stdin is only read when it is not a terminal. Markdown and
// HTML files are reduced to plain text.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read %s: %w", args[0], err)
		}
		return nonEmpty(inputNormalisers.Normalise(args[0], string(data)))
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errNoInput
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return nonEmpty(string(data))
}

func nonEmpty(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errNoInput
	}
	return text, nil
}

// watchFile sends on the returned channel whenever path is written or
// replaced. The directory is watched so editors that save by rename are
// seen too. The channel closes when ctx is done.
func watchFile(ctx context.Context, path string) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isContentChange(event, abs) {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch %s: %v", path, err)
			}
		}
	}()
	return changes, nil
}

// isContentChange reports whether event rewrote the watched file.
func isContentChange(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
