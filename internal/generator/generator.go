package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/zhuyin/internal/audio"
	"codeberg.org/snonux/zhuyin/internal/audiopath"
)

// ErrProviderDown is returned by Run when the provider failed too many
// times in a row and the remaining assets were not attempted
var ErrProviderDown = errors.New("audio provider keeps failing")

// Options tune a Generator
type Options struct {
	// Delay is the pause after each synthesized file, to stay below the
	// provider's rate limits
	Delay time.Duration

	// MaxFailures consecutive provider errors open the circuit breaker
	MaxFailures uint32

	// Output receives progress lines, defaults to io.Discard
	Output io.Writer
}

// DefaultOptions returns the options used by the generate command
func DefaultOptions() Options {
	return Options{
		Delay:       time.Second,
		MaxFailures: 5,
		Output:      os.Stdout,
	}
}

// Stats counts the outcome of a run
type Stats struct {
	Generated int
	Skipped   int
	Failed    int
}

// Total returns the number of assets looked at
func (s Stats) Total() int {
	return s.Generated + s.Skipped + s.Failed
}

// Generator synthesizes missing audio assets with a TTS provider
type Generator struct {
	provider audio.Provider
	breaker  *gobreaker.CircuitBreaker
	delay    time.Duration
	out      io.Writer
}

// New creates a generator for provider
func New(provider audio.Provider, opts Options) *Generator {
	if opts.MaxFailures == 0 {
		opts.MaxFailures = DefaultOptions().MaxFailures
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}

	g := &Generator{
		provider: provider,
		delay:    opts.Delay,
		out:      opts.Output,
	}

	maxFailures := opts.MaxFailures
	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    provider.Name(),
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fmt.Fprintf(g.out, "Provider %s: circuit %s -> %s\n", name, from, to)
		},
	})

	return g
}

// Run synthesizes every asset whose file does not exist yet. Files already
// on disk are skipped. A single failure does not stop the run; the run
// ends early on cancellation or when the provider keeps failing.
func (g *Generator) Run(ctx context.Context, assets []audiopath.Asset) (Stats, error) {
	var stats Stats

	for i, asset := range assets {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		name := filepath.Base(asset.Path)
		if _, err := os.Stat(asset.Path); err == nil {
			fmt.Fprintf(g.out, "[%d/%d] %s already exists, skipping\n", i+1, len(assets), name)
			stats.Skipped++
			continue
		}

		if err := audio.ValidateMandarinText(asset.Text); err != nil {
			fmt.Fprintf(g.out, "[%d/%d] Error: %s: %v\n", i+1, len(assets), name, err)
			stats.Failed++
			continue
		}

		fmt.Fprintf(g.out, "[%d/%d] Generating %s (%q)\n", i+1, len(assets), name, asset.Text)
		_, err := g.breaker.Execute(func() (interface{}, error) {
			return nil, g.provider.GenerateAudio(ctx, asset.Text, asset.Path)
		})

		switch {
		case err == nil:
			stats.Generated++
		case ctx.Err() != nil:
			return stats, ctx.Err()
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return stats, fmt.Errorf("%w: %d assets left: %v", ErrProviderDown, len(assets)-i, err)
		default:
			fmt.Fprintf(g.out, "  Error generating %s: %v\n", name, err)
			stats.Failed++
			continue
		}

		if i < len(assets)-1 {
			if err := sleep(ctx, g.delay); err != nil {
				return stats, err
			}
		}
	}

	return stats, nil
}

// Regenerate removes the files of assets and synthesizes them again
func (g *Generator) Regenerate(ctx context.Context, assets []audiopath.Asset) (Stats, error) {
	for _, asset := range assets {
		err := os.Remove(asset.Path)
		switch {
		case err == nil:
			fmt.Fprintf(g.out, "Removed previous file: %s\n", filepath.Base(asset.Path))
		case !errors.Is(err, os.ErrNotExist):
			return Stats{}, fmt.Errorf("failed to remove %s: %w", asset.Path, err)
		}
	}

	return g.Run(ctx, assets)
}

// Missing returns the assets whose file does not exist
func Missing(assets []audiopath.Asset) []audiopath.Asset {
	var missing []audiopath.Asset
	for _, asset := range assets {
		if _, err := os.Stat(asset.Path); err != nil {
			missing = append(missing, asset)
		}
	}
	return missing
}

// Select returns the assets matching keep
func Select(assets []audiopath.Asset, keep func(audiopath.Asset) bool) []audiopath.Asset {
	var selected []audiopath.Asset
	for _, asset := range assets {
		if keep(asset) {
			selected = append(selected, asset)
		}
	}
	return selected
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
