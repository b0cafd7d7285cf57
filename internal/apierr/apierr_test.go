package apierr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound_TruncatesSuggestionsToFive(t *testing.T) {
	err := NotFound("class not found", []string{"a", "b", "c", "d", "e", "f", "g"})
	assert.Len(t, err.Suggestions, 5)
	assert.Equal(t, KindNotFound, err.Kind)
}

func TestBadRequest_NamesParam(t *testing.T) {
	err := BadRequest("pattern", "invalid regex")
	assert.Equal(t, "pattern", err.Param)
	assert.Equal(t, KindBadRequest, err.Kind)
}

func TestAmbiguous_CarriesCandidates(t *testing.T) {
	err := Ambiguous("multiple classes match", []string{"a/b/C", "x/y/C"})
	assert.Equal(t, KindAmbiguous, err.Kind)
	assert.Equal(t, []string{"a/b/C", "x/y/C"}, err.Candidates)
}

func TestInternal_WrapsMessageNotStack(t *testing.T) {
	err := Internal(errors.New("boom"))
	assert.Equal(t, KindInternal, err.Kind)
	assert.Equal(t, "boom", err.Message)
}

func TestError_ImplementsErrorInterface(t *testing.T) {
	var err error = BadRequest("name", "required")
	assert.Contains(t, err.Error(), "bad-request")
}

func TestAs_RoundTrips(t *testing.T) {
	var err error = State("call graph not built")
	extracted, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, KindState, extracted.Kind)

	_, ok = As(errors.New("plain error"))
	assert.False(t, ok)
}

func TestBackendFailure_CarriesDiagnosticsVerbatim(t *testing.T) {
	diags := []Diagnostic{{Line: 12, Col: 4, Message: "unexpected token"}}
	err := BackendFailure("decompile failed", diags)
	assert.Equal(t, diags, err.Diagnostics)
}
