package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/lexcore/internal/extract"
	"github.com/ppiankov/lexcore/internal/extract/adapters"
	"github.com/ppiankov/lexcore/internal/model"
	"github.com/ppiankov/lexcore/internal/procedural"
	"github.com/ppiankov/lexcore/internal/validate"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Request is one analysis job: a text plus optional citations and procedural query
type Request struct {
	Subject   string
	Source    string
	Text      string
	Citations string                 // Raw citation input; empty skips validation
	Procedure *model.ProceduralQuery // nil skips timeline resolution
	Fetch     *model.FetchMeta
}

// Analyzer orchestrates segmentation, allocation, citation checks and
// timeline resolution into one report
type Analyzer struct {
	fetcher   *Fetcher
	validator *validate.CitationValidator
	resolver  *procedural.Resolver
	adapters  *adapters.Registry
	window    int
	logger    *zap.Logger
	now       func() time.Time
}

// AnalyzerOption configures an Analyzer
type AnalyzerOption func(*Analyzer)

// WithFetcher enables URL sources
func WithFetcher(f *Fetcher) AnalyzerOption {
	return func(a *Analyzer) { a.fetcher = f }
}

// WithResolver sets the procedural resolver
func WithResolver(r *procedural.Resolver) AnalyzerOption {
	return func(a *Analyzer) {
		if r != nil {
			a.resolver = r
		}
	}
}

// WithWindow sets the sentences-per-section window
func WithWindow(w int) AnalyzerOption {
	return func(a *Analyzer) { a.window = w }
}

// WithAnalyzerLogger sets the logger
func WithAnalyzerLogger(l *zap.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAnalyzer creates an analyzer with the default window, the built-in
// procedural table and no collaborator
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		validator: validate.NewCitationValidator(),
		resolver:  procedural.NewResolver(),
		adapters:  adapters.NewRegistry(),
		window:    extract.DefaultWindow,
		logger:    zap.NewNop(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the core components over a request. Summary, citations and
// procedure are computed concurrently; only the procedure can fail.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*model.Report, error) {
	report := &model.Report{
		RunID:      uuid.NewString(),
		Subject:    req.Subject,
		Source:     req.Source,
		AnalyzedAt: a.now(),
		Window:     max(a.window, 0),
		Fetch:      req.Fetch,
		Principles: model.DefaultPrinciples(),
	}

	logger := a.logger.With(zap.String("run_id", report.RunID), zap.String("subject", req.Subject))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sentences := extract.Segment(req.Text)
		report.SentenceCount = len(sentences)
		report.Summary = extract.Allocate(sentences, a.window)
		return nil
	})

	if strings.TrimSpace(req.Citations) != "" {
		g.Go(func() error {
			report.Citations = a.validator.Validate(req.Citations)
			return nil
		})
	}

	if req.Procedure != nil {
		g.Go(func() error {
			record, err := a.resolver.Resolve(gctx, *req.Procedure)
			if err != nil {
				return fmt.Errorf("resolve procedure: %w", err)
			}
			report.Procedure = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn("Analysis failed", zap.Error(err))
		return nil, err
	}

	logger.Debug("Analysis complete",
		zap.Int("sentences", report.SentenceCount),
		zap.Int("citations", len(report.Citations)),
		zap.Bool("procedure", report.Procedure != nil))

	return report, nil
}

// AnalyzeSource loads a file or URL and summarizes it. It satisfies worker.Analyzer.
func (a *Analyzer) AnalyzeSource(ctx context.Context, source string) (*model.Report, error) {
	req, err := a.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, *req)
}

// Load reads a source into a Request. http(s) URLs go through the fetcher;
// anything else is a file path. .html/.htm files are converted to text.
func (a *Analyzer) Load(ctx context.Context, source string) (*Request, error) {
	if isURL(source) {
		if a.fetcher == nil {
			return nil, fmt.Errorf("%w: URL sources need a fetcher", model.ErrConfiguration)
		}
		result, err := a.fetcher.FetchWithRetry(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		meta := result.Meta
		return &Request{
			Subject: result.Subject,
			Source:  result.FinalURL,
			Text:    result.Text,
			Fetch:   &meta,
		}, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	text := string(data)
	switch strings.ToLower(filepath.Ext(source)) {
	case ".html", ".htm", ".xhtml":
		text, _, err = a.adapters.Extract(text, "", "text/html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", source, err)
		}
	}

	return &Request{
		Subject: strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)),
		Source:  source,
		Text:    text,
	}, nil
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
