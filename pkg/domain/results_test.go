package domain_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstimuli/cadence/pkg/domain"
)

func TestResults_SetAndRT(t *testing.T) {
	r := domain.NewResults()
	r.Set("color", "red")
	r.SetRT("color", 0.42)

	assert.Equal(t, "red", r["color"])
	assert.Equal(t, 0.42, r["color_rt"])
}

func TestResults_MergeLaterWins(t *testing.T) {
	r := domain.Results{"a": 1, "b": 2}
	r.Merge(domain.Results{"b": 20, "c": 30})

	assert.Equal(t, domain.Results{"a": 1, "b": 20, "c": 30}, r)
}

func TestResults_EncodeSortedKeyOrder(t *testing.T) {
	r := domain.Results{
		"zeta":     1,
		"alpha":    "x",
		"alpha_rt": 0.5,
		"mid":      true,
	}

	var buf bytes.Buffer
	require.NoError(t, r.EncodeSorted(&buf))
	assert.Equal(t, "{\"alpha\":\"x\",\"alpha_rt\":0.5,\"mid\":true,\"zeta\":1}\n", buf.String())
}

func TestResults_EncodeSortedEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, domain.NewResults().EncodeSorted(&buf))
	assert.Equal(t, "{}\n", buf.String())
}

func TestResults_WriteDownload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run_results.json")
	r := domain.Results{"q1": "yes"}

	require.NoError(t, r.WriteDownload(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"q1":"yes"}`, string(data))
}

func TestError_WrapsAndFormats(t *testing.T) {
	cause := errors.New("connection refused")
	err := domain.NewError("store", "saving results", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "store")
	assert.Contains(t, err.Error(), "saving results")
}

func TestCompletionCode(t *testing.T) {
	assert.True(t, domain.CompletionNormal.Valid())
	assert.True(t, domain.CompletionSkipBlock.Valid())
	assert.True(t, domain.CompletionSkipSurvey.Valid())
	assert.False(t, domain.CompletionCode(3).Valid())
	assert.False(t, domain.CompletionCode(-1).Valid())

	assert.Equal(t, "normal", domain.CompletionNormal.String())
	assert.Equal(t, "skip_to_end_of_block", domain.CompletionSkipBlock.String())
	assert.Equal(t, "skip_to_end_of_survey", domain.CompletionSkipSurvey.String())
}
