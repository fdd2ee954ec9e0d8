package skill

import (
	"context"
	"testing"

	"github.com/ppiankov/lexcore/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_Summarize(t *testing.T) {
	d := NewDispatcher(nil, nil)

	result, err := d.Dispatch(context.Background(), OpSummarize, Input{
		Text:   "One. Two. Three.",
		Window: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Summary)
	assert.Equal(t, []string{"One."}, result.Summary.Section(model.SectionFacts).Texts())
	assert.Equal(t, []string{"Three."}, result.Summary.Section(model.SectionArguments).Texts())
	assert.Empty(t, result.Summary.Section(model.SectionReasoning).Texts())
	assert.Nil(t, result.Citations)
	assert.Nil(t, result.Procedure)
}

func TestDispatch_CheckCitations(t *testing.T) {
	result, err := NewDispatcher(nil, nil).Dispatch(context.Background(), OpCheckCitations, Input{
		Citations: "AIR 1967 SC 1643; not a citation",
	})
	require.NoError(t, err)
	require.Len(t, result.Citations, 2)
	assert.True(t, result.Citations[0].Valid)
	assert.False(t, result.Citations[1].Valid)
	assert.Nil(t, result.Citations[1].Corrected)
}

func TestDispatch_ResolveProcedure(t *testing.T) {
	d := NewDispatcher(nil, nil)

	result, err := d.Dispatch(context.Background(), OpResolveProcedure, Input{
		Query: model.ProceduralQuery{CaseStage: "FIR registered", LawCode: "CrPC"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.ConfidenceHigh, result.Procedure.Confidence)

	_, err = d.Dispatch(context.Background(), OpResolveProcedure, Input{
		Query: model.ProceduralQuery{CaseStage: "Decree passed", LawCode: "Limitation Act"},
	})
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestDispatch_FillTemplate(t *testing.T) {
	result, err := NewDispatcher(nil, nil).Dispatch(context.Background(), OpFillTemplate, Input{
		Template: "To {client}, before {court}.",
		Vars:     map[string]string{"client": "A. Rao"},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Document)
	assert.Equal(t, "To A. Rao, before {court}.", *result.Document)
	assert.Equal(t, []string{"court"}, result.Missing)
}

func TestDispatch_EveryOperationHandled(t *testing.T) {
	d := NewDispatcher(nil, nil)
	for _, op := range Operations() {
		in := Input{Query: model.ProceduralQuery{CaseStage: "Summons received", LawCode: "CPC"}}
		result, err := d.Dispatch(context.Background(), op, in)
		require.NoError(t, err, op.String())
		assert.Equal(t, op, result.Operation)
	}
}

func TestDispatch_Unknown(t *testing.T) {
	_, err := NewDispatcher(nil, nil).Dispatch(context.Background(), Operation(0), Input{})
	assert.ErrorIs(t, err, ErrUnknownOperation)
}
