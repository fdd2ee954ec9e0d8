package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/lexcore/internal/cache"
	"github.com/ppiankov/lexcore/internal/llm"
	"github.com/ppiankov/lexcore/internal/model"
	"github.com/ppiankov/lexcore/internal/pipeline"
	"github.com/ppiankov/lexcore/internal/procedural"
	"github.com/ppiankov/lexcore/internal/worker"
	"go.uber.org/zap"
)

// components are the long-lived collaborators one command run needs
type components struct {
	resolver *procedural.Resolver
	provider llm.Provider
}

// Close releases provider resources
func (c *components) Close() {
	if closer, ok := c.provider.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("Failed to close provider", zap.Error(err))
		}
	}
}

// buildComponents wires the procedural table, the optional collaborator and
// its rate limiter and answer cache from configuration
func buildComponents(ctx context.Context, c *model.Config) (*components, error) {
	table := procedural.DefaultTable()
	if c.Procedural.TablePath != "" {
		loaded, err := procedural.LoadTable(c.Procedural.TablePath)
		if err != nil {
			return nil, err
		}
		table = loaded
		logger.Debug("Loaded procedural table",
			zap.String("path", c.Procedural.TablePath),
			zap.Int("entries", table.Len()))
	}

	// A provider that cannot be built must not fail commands that never
	// escalate; the error surfaces from Augment instead.
	provider, err := llm.NewProvider(ctx, llm.WithEnvCredentials(llm.ConfigFromModel(c.LLM)))
	if err != nil {
		logger.Debug("Collaborator unavailable", zap.String("provider", c.LLM.Provider), zap.Error(err))
		provider = llm.Unavailable(c.LLM.Provider, err)
	}

	opts := []procedural.Option{
		procedural.WithTable(table),
		procedural.WithTimeout(c.Procedural.EscalationTimeout),
		procedural.WithLogger(logger),
	}

	if provider != nil {
		var augmenter llm.Provider = provider
		augmenter = llm.RateLimited(augmenter, worker.NewLimiter(c.RateLimiting.RequestsPerSecond, c.RateLimiting.BurstSize))
		if c.Cache.Enabled {
			augmenter = llm.Cached(augmenter, cache.NewMemoryCache(c.Cache.TTL, 2*c.Cache.TTL), c.Cache.TTL)
		}
		opts = append(opts, procedural.WithAugmenter(augmenter))
		logger.Debug("Escalation enabled",
			zap.String("provider", provider.Name()),
			zap.Bool("cache", c.Cache.Enabled))
	}

	return &components{
		resolver: procedural.NewResolver(opts...),
		provider: provider,
	}, nil
}

// newAnalyzer builds the document analyzer with URL intake enabled
func newAnalyzer(c *model.Config, resolver *procedural.Resolver, window int) *pipeline.Analyzer {
	fetcher := pipeline.NewFetcherFromConfig(c.HTTP).
		WithLimiter(worker.NewLimiter(c.RateLimiting.RequestsPerSecond, c.RateLimiting.BurstSize))

	return pipeline.NewAnalyzer(
		pipeline.WithFetcher(fetcher),
		pipeline.WithResolver(resolver),
		pipeline.WithWindow(window),
		pipeline.WithAnalyzerLogger(logger),
	)
}

// readStdin reads all of r, for "-" or missing file arguments
func readStdin(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// readTextArg returns the contents of path, or of stdin for "" and "-"
func readTextArg(in io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		return readStdin(in)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// renderFormat validates a --format value
func renderFormat(format string) (string, error) {
	switch f := strings.ToLower(format); f {
	case "md", "markdown":
		return "markdown", nil
	case "json":
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (supported: markdown, json)", format)
	}
}

// openOutput returns stdout for "" or a created file
func openOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}
