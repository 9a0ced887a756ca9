package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geochron-tools/snac-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testDiamond() model.Diamond {
	return model.Diamond{
		AgeCore:         3520,
		AgeRim:          1860,
		AgeKimberlite:   0,
		CoreNitrogen:    625,
		CoreAggregation: 0.863,
		RimNitrogen:     801,
		RimAggregation:  0.197,
	}
}

func testOptions() model.FitOptions {
	return model.FitOptions{
		CoolingRate0: 0.01,
		TStart0:      1200,
		RateBounds:   [2]float64{0.001, 0.12},
		TBounds:      [2]float64{1000, 1450},
		Dt:           1,
		Scenario:     "continuous",
	}
}

func TestSQLite_CreateAndGetFitRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateFitRun(ctx, testDiamond(), testOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.FitRunStatusFitting, run.Status)

	got, err := st.GetFitRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, testDiamond(), got.Diamond)
	assert.Equal(t, testOptions(), got.Options)
	assert.Nil(t, got.Summary)
}

func TestSQLite_CompleteFitRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateFitRun(ctx, testDiamond(), testOptions())
	require.NoError(t, err)

	summary := &model.FitSummary{TStart: 1287, CoolingRate: 0.043, Residual: 2.1e-6, Iterations: 97}
	require.NoError(t, st.CompleteFitRun(ctx, run.ID, summary))

	got, err := st.GetFitRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FitRunStatusFitted, got.Status)
	require.NotNil(t, got.Summary)
	assert.Equal(t, *summary, *got.Summary)
}

func TestSQLite_FailFitRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateFitRun(ctx, testDiamond(), testOptions())
	require.NoError(t, err)

	summary := &model.FitSummary{TStart: 1000, CoolingRate: 0.12, Residual: 4.3, Error: "iteration budget exhausted"}
	require.NoError(t, st.FailFitRun(ctx, run.ID, summary))

	got, err := st.GetFitRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FitRunStatusFailed, got.Status)
	require.NotNil(t, got.Summary)
	assert.Equal(t, "iteration budget exhausted", got.Summary.Error)
}

func TestSQLite_UpdateMissingRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	err := st.CompleteFitRun(ctx, "nonexistent", &model.FitSummary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_ListFitRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateFitRun(ctx, testDiamond(), testOptions())
	require.NoError(t, err)
	b, err := st.CreateFitRun(ctx, testDiamond(), testOptions())
	require.NoError(t, err)

	require.NoError(t, st.CompleteFitRun(ctx, a.ID, &model.FitSummary{TStart: 1300}))

	all, err := st.ListFitRuns(ctx, FitRunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	fitted, err := st.ListFitRuns(ctx, FitRunFilter{Status: model.FitRunStatusFitted})
	require.NoError(t, err)
	require.Len(t, fitted, 1)
	assert.Equal(t, a.ID, fitted[0].ID)

	fitting, err := st.ListFitRuns(ctx, FitRunFilter{Status: model.FitRunStatusFitting})
	require.NoError(t, err)
	require.Len(t, fitting, 1)
	assert.Equal(t, b.ID, fitting[0].ID)

	limited, err := st.ListFitRuns(ctx, FitRunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLite_GetMissingRun(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetFitRun(context.Background(), "nope")
	assert.Error(t, err)
}
