package report_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calbench/calbench/bench"
	"github.com/calbench/calbench/report"
	"github.com/calbench/calbench/testkit"
	"github.com/calbench/calbench/validate"
)

func sampleDocument(t *testing.T) *report.Document {
	t.Helper()

	base, err := testkit.ConstantRecorder(100*time.Microsecond, 50, time.Second, 3)
	require.NoError(t, err)
	target, err := testkit.ConstantRecorder(110*time.Microsecond, 50, time.Second, 3)
	require.NoError(t, err)

	batch := &bench.PairedBatch{Pairs: []bench.TrialPair{{Base: base, Target: target}}}
	bv, err := validate.ValidateBatch(batch, validate.DefaultBatchSpec(1.1))
	require.NoError(t, err)

	return report.NewDocument("roundtrip", "micro", batch, bv)
}

func TestWriteAndReadBack(t *testing.T) {
	doc := sampleDocument(t)
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, report.Write(path, doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var back report.Document
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, "roundtrip", back.Title)
	assert.Equal(t, "micro", back.Unit)
	require.Len(t, back.Trials, 1)
	assert.Equal(t, validate.Pass, back.Aggregate.Outcome)
	assert.Equal(t, doc.Trials[0].Base.Count, back.Trials[0].Base.Count)
	assert.Equal(t, doc.Trials[0].Base.Median, back.Trials[0].Base.Median)
}

func TestOutcomeMarshalsAsText(t *testing.T) {
	data, err := json.Marshal(validate.Pass)
	require.NoError(t, err)
	assert.Equal(t, `"pass"`, string(data))
}
