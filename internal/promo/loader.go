package promo

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped code files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a file-system promo code loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "promo-loader").Logger(),
	}
}

// Load reads a gzipped code file, one code per line.
func (l *fileLoader) Load(ctx context.Context, path string) (Set, error) {
	l.logger.Info().Str("file", path).Msg("loading promo code file")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open promo file %s: %w", path, err)
	}
	defer file.Close()

	set, err := readCodes(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read promo file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("codes_loaded", set.Size()).
		Msg("promo code file loaded")

	return set, nil
}

// readCodes decompresses and scans a code stream into a set. Context
// cancellation is checked periodically so oversized files can be aborted.
func readCodes(ctx context.Context, r io.Reader) (*mapSet, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	set := newMapSet(1024)

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lines := 0
	for scanner.Scan() {
		if lines%1_000_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		if code := strings.TrimSpace(scanner.Text()); code != "" {
			set.add(code)
			lines++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning codes: %w", err)
	}

	return set, nil
}
