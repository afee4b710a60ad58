package promo

import (
	"context"
	"fmt"
	"sync"

	"threadcart/internal/model"

	"github.com/rs/zerolog"
)

// Promo code length bounds.
const (
	minCodeLength = 8
	maxCodeLength = 10
)

// ValidatorConfig holds configuration for the promo validator.
type ValidatorConfig struct {
	// Files is the list of code file paths (or S3 keys) to load.
	Files []string

	// MinMatch is the minimum number of files a code must appear in.
	MinMatch int
}

// validator implements Validator over in-memory code sets. Sets are
// read-only after construction, so lookups need no locking.
type validator struct {
	sets     []Set
	minMatch int
	logger   zerolog.Logger
}

// NewValidator loads all configured code files concurrently and returns a
// ready validator. A failure to load any file fails construction.
func NewValidator(ctx context.Context, cfg ValidatorConfig, loader Loader, logger zerolog.Logger) (Validator, error) {
	if cfg.MinMatch < 1 {
		cfg.MinMatch = 2
	}

	logger = logger.With().Str("component", "promo-validator").Logger()
	logger.Info().
		Int("file_count", len(cfg.Files)).
		Int("min_match", cfg.MinMatch).
		Msg("initialising promo validator")

	sets := make([]Set, len(cfg.Files))
	errs := make([]error, len(cfg.Files))

	var wg sync.WaitGroup
	for i, path := range cfg.Files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sets[i], errs[i] = loader.Load(ctx, path)
		}(i, path)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to load promo file %s: %w", cfg.Files[i], err)
		}
	}

	return &validator{
		sets:     sets,
		minMatch: cfg.MinMatch,
		logger:   logger,
	}, nil
}

// Validate reports whether the code is accepted.
func (v *validator) Validate(ctx context.Context, code string) error {
	if len(code) < minCodeLength || len(code) > maxCodeLength {
		v.logger.Debug().
			Str("promo_code", code).
			Int("length", len(code)).
			Msg("promo code length out of bounds")
		return model.ErrInvalidPromoCode
	}

	matches := 0
	for _, set := range v.sets {
		if set.Contains(code) {
			if matches++; matches >= v.minMatch {
				break
			}
		}
	}

	if matches < v.minMatch {
		v.logger.Debug().
			Str("promo_code", code).
			Int("matches", matches).
			Msg("promo code not present in enough files")
		return model.ErrInvalidPromoCode
	}

	return nil
}

// Close releases the loaded code sets.
func (v *validator) Close() error {
	v.sets = nil
	v.logger.Info().Msg("promo validator closed")
	return nil
}
