package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/lexcore/internal/model"
	"github.com/ppiankov/lexcore/internal/procedural"
	"github.com/ppiankov/lexcore/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const judgment = `The appellant was convicted by the trial court. The High Court affirmed.

Whether the confession was voluntary is the question. Whether Section 24 applies is another.

Counsel for the appellant argued coercion. The State denied it.

Reliance was placed on (2010) 3 SCC 200. The Court also considered AIR 1952 SC 75.

We find the confession involuntary. The appeal is allowed.`

// stubAugmenter implements procedural.Augmenter
type stubAugmenter struct {
	answer *model.AugmentedAnswer
	err    error
}

func (s *stubAugmenter) Name() string { return "stub" }

func (s *stubAugmenter) Augment(ctx context.Context, q model.ProceduralQuery) (*model.AugmentedAnswer, error) {
	return s.answer, s.err
}

func TestAnalyzer_Analyze(t *testing.T) {
	analyzer := NewAnalyzer()

	report, err := analyzer.Analyze(context.Background(), Request{
		Subject:   "Rao v. State",
		Text:      judgment,
		Citations: "(2010) 3 SCC 200; AIR 1952 SC 75; Rao v. State",
		Procedure: &model.ProceduralQuery{CaseStage: "Summons received", LawCode: "CPC"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 10, report.SentenceCount)
	assert.Equal(t, 2, report.Window)
	assert.Equal(t, []string{
		"The appellant was convicted by the trial court.",
		"The High Court affirmed.",
	}, report.Summary.Section(model.SectionFacts).Texts())
	assert.Equal(t, []string{
		"We find the confession involuntary.",
		"The appeal is allowed.",
	}, report.Summary.Section(model.SectionReasoning).Texts())

	require.Len(t, report.Citations, 3)
	assert.Equal(t, 2, report.CountValid())

	require.NotNil(t, report.Procedure)
	assert.Equal(t, model.ConfidenceHigh, report.Procedure.Confidence)
	assert.Equal(t, 30, report.Procedure.TimelineDays)
	assert.Equal(t, model.DefaultPrinciples(), report.Principles)
}

func TestAnalyzer_OptionalParts(t *testing.T) {
	report, err := NewAnalyzer(WithWindow(1)).Analyze(context.Background(), Request{Text: judgment})
	require.NoError(t, err)

	assert.Nil(t, report.Citations)
	assert.Nil(t, report.Procedure)
	assert.Equal(t, 5, report.Summary.SentenceCount())
}

func TestAnalyzer_EmptyText(t *testing.T) {
	report, err := NewAnalyzer().Analyze(context.Background(), Request{})
	require.NoError(t, err)

	assert.Zero(t, report.SentenceCount)
	assert.True(t, report.Summary.IsEmpty())
}

func TestAnalyzer_ProcedureErrors(t *testing.T) {
	q := &model.ProceduralQuery{CaseStage: "Award passed", LawCode: "Arbitration Act"}

	_, err := NewAnalyzer().Analyze(context.Background(), Request{Text: judgment, Procedure: q})
	assert.ErrorIs(t, err, model.ErrConfiguration)

	resolver := procedural.NewResolver(procedural.WithAugmenter(&stubAugmenter{err: errors.New("boom")}))
	_, err = NewAnalyzer(WithResolver(resolver)).Analyze(context.Background(), Request{Text: judgment, Procedure: q})
	assert.ErrorIs(t, err, model.ErrCollaborator)
}

func TestAnalyzer_Escalation(t *testing.T) {
	resolver := procedural.NewResolver(procedural.WithAugmenter(&stubAugmenter{answer: &model.AugmentedAnswer{
		CurrentStage: "Award passed",
		Confidence:   model.ConfidenceAbstain,
	}}))

	report, err := NewAnalyzer(WithResolver(resolver)).Analyze(context.Background(), Request{
		Text:      judgment,
		Procedure: &model.ProceduralQuery{CaseStage: "Award passed", LawCode: "Arbitration Act"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.ConfidenceAbstain, report.Procedure.Confidence)
	assert.Equal(t, NoCertifiedDeadline, FormatDeadline(report.Procedure))
}

func TestAnalyzer_LoadFiles(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "rao-v-state.txt")
	htm := filepath.Join(dir, "order.html")
	require.NoError(t, os.WriteFile(txt, []byte(judgment), 0o644))
	require.NoError(t, os.WriteFile(htm, []byte("<html><body><p>Notice issued.</p><p>List after four weeks.</p></body></html>"), 0o644))

	analyzer := NewAnalyzer()

	report, err := analyzer.AnalyzeSource(context.Background(), txt)
	require.NoError(t, err)
	assert.Equal(t, "rao-v-state", report.Subject)
	assert.Equal(t, 10, report.SentenceCount)

	req, err := analyzer.Load(context.Background(), htm)
	require.NoError(t, err)
	assert.Equal(t, "Notice issued.\n\nList after four weeks.", req.Text)

	_, err = analyzer.AnalyzeSource(context.Background(), filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestAnalyzer_LoadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<p>The petition is dismissed.</p>")
	}))
	defer server.Close()

	_, err := NewAnalyzer().Load(context.Background(), server.URL+"/doc/1")
	assert.ErrorIs(t, err, model.ErrConfiguration, "URL sources need a fetcher")

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	report, err := NewAnalyzer(WithFetcher(fetcher)).AnalyzeSource(context.Background(), server.URL+"/doc/1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.SentenceCount)
	require.NotNil(t, report.Fetch)
	assert.Equal(t, http.StatusOK, report.Fetch.StatusCode)
}

func TestAnalyzer_Batch(t *testing.T) {
	dir := t.TempDir()
	var sources []string
	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, fmt.Sprintf("doc%d.txt", i))
		require.NoError(t, os.WriteFile(path, []byte(judgment), 0o644))
		sources = append(sources, path)
	}
	sources = append(sources, filepath.Join(dir, "missing.txt"))

	results := worker.NewBatchProcessor(NewAnalyzer(), 3).ProcessSources(context.Background(), sources)
	require.Len(t, results, 6)
	for _, r := range results[:5] {
		require.NoError(t, r.Error)
		assert.Equal(t, 10, r.Report.SentenceCount)
	}
	assert.Error(t, results[5].Error)
}
