package progress

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/musiclab/internal/labs"
)

// failingBackend rejects every operation with err.
type failingBackend struct {
	err error
}

func (f failingBackend) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingBackend) Put(context.Context, string, []byte) error   { return f.err }
func (f failingBackend) Delete(context.Context, string) error        { return f.err }

func sampleRecord() UserSessionData {
	data := Default()
	data.TotalXP = 230
	data.Level = 3
	data.Streak = 4
	data.LastActiveDate = "2026-03-10"
	data.WeeklyGoal = 45
	data.WeeklyMinutes = 17.25
	data.LabStats[labs.Pattern] = LabStats{
		LabID:         labs.Pattern,
		TotalSessions: 3,
		TotalTimeMs:   185000,
		TotalActivity: 42,
		TotalXP:       30,
		LastVisit:     1773100000000,
	}
	return data
}

func TestLoadEmptyReturnsDefaults(t *testing.T) {
	s := NewStore(NewMemoryBackend())

	data, st := s.Load(context.Background())
	assert.Equal(t, StatusEmpty, st.Kind)
	assert.False(t, st.Degraded())
	assert.Equal(t, Default(), data)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryBackend())

	want := sampleRecord()
	require.Equal(t, StatusOK, s.Save(ctx, want).Kind)

	got, st := s.Load(ctx)
	require.Equal(t, StatusOK, st.Kind)
	assert.Equal(t, want, got)
}

func TestLoadMergesMissingFieldsFromDefaults(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	require.NoError(t, b.Put(ctx, StorageKey, []byte(`{"totalXP":120,"streak":2,"lastActiveDate":"2026-03-01"}`)))

	got, st := NewStore(b).Load(ctx)
	require.Equal(t, StatusOK, st.Kind)
	assert.Equal(t, 120, got.TotalXP)
	assert.Equal(t, 2, got.Level, "level is derived from totalXP")
	assert.Equal(t, 2, got.Streak)
	assert.Equal(t, "2026-03-01", got.LastActiveDate)
	assert.Equal(t, DefaultWeeklyGoal, got.WeeklyGoal)
	assert.Equal(t, 0.0, got.WeeklyMinutes)
	assert.NotNil(t, got.LabStats)
}

func TestLoadIgnoresUnknownFields(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	require.NoError(t, b.Put(ctx, StorageKey, []byte(`{"totalXP":10,"theme":"dark"}`)))

	got, st := NewStore(b).Load(ctx)
	require.Equal(t, StatusOK, st.Kind)
	assert.Equal(t, 10, got.TotalXP)
}

func TestLoadNormalizesRecord(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	raw := `{"totalXP":250,"level":9,"weeklyGoal":0,"labStats":{"rhythm":{"totalSessions":1,"totalTimeMs":5000}}}`
	require.NoError(t, b.Put(ctx, StorageKey, []byte(raw)))

	got, st := NewStore(b).Load(ctx)
	require.Equal(t, StatusOK, st.Kind)
	assert.Equal(t, 3, got.Level, "stored level is never trusted over totalXP")
	assert.Equal(t, DefaultWeeklyGoal, got.WeeklyGoal)
	assert.Equal(t, labs.Rhythm, got.LabStats[labs.Rhythm].LabID)
}

func TestLoadNullLabStats(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	require.NoError(t, b.Put(ctx, StorageKey, []byte(`{"totalXP":5,"labStats":null}`)))

	got, st := NewStore(b).Load(ctx)
	require.Equal(t, StatusOK, st.Kind)
	assert.NotNil(t, got.LabStats)
	assert.Empty(t, got.LabStats)
}

func TestLoadIntegralFloats(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	raw := `{"totalXP":230.0,"weeklyGoal":45.0,"weeklyMinutes":17.25,` +
		`"labStats":{"pattern":{"totalSessions":3.0,"totalTimeMs":1.85e5,"lastVisit":1773100000000.0}}}`
	require.NoError(t, b.Put(ctx, StorageKey, []byte(raw)))

	got, st := NewStore(b).Load(ctx)
	require.Equal(t, StatusOK, st.Kind, st.Err)
	assert.Equal(t, 230, got.TotalXP)
	assert.Equal(t, 3, got.Level)
	assert.Equal(t, 45, got.WeeklyGoal)
	assert.InDelta(t, 17.25, got.WeeklyMinutes, 1e-9)

	s := got.LabStats[labs.Pattern]
	assert.Equal(t, 3, s.TotalSessions)
	assert.Equal(t, int64(185000), s.TotalTimeMs)
	assert.Equal(t, int64(1773100000000), s.LastVisit)
}

func TestLoadCorrupt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{totalXP:`},
		{"wrong type", `{"totalXP":"lots"}`},
		{"negative xp", `{"totalXP":-5}`},
		{"fractional counter", `{"streak":1.5}`},
		{"array record", `[1,2,3]`},
		{"bad lab stats", `{"labStats":{"rhythm":{"totalTimeMs":"long"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			b := NewMemoryBackend()
			require.NoError(t, b.Put(ctx, StorageKey, []byte(tt.raw)))

			got, st := NewStore(b).Load(ctx)
			assert.Equal(t, StatusCorrupt, st.Kind)
			assert.True(t, st.Degraded())
			assert.Error(t, st.Err)
			assert.Equal(t, Default(), got)
		})
	}
}

func TestNilBackendIsUnavailable(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)

	data, st := s.Load(ctx)
	assert.Equal(t, StatusUnavailable, st.Kind)
	assert.Equal(t, Default(), data)

	assert.Equal(t, StatusUnavailable, s.Save(ctx, sampleRecord()).Kind)
	assert.Equal(t, StatusUnavailable, s.Clear(ctx).Kind)
}

func TestBackendFailures(t *testing.T) {
	ctx := context.Background()
	s := NewStore(failingBackend{err: errors.New("quota exceeded")})

	data, st := s.Load(ctx)
	assert.Equal(t, StatusUnavailable, st.Kind)
	assert.Equal(t, Default(), data)

	st = s.Save(ctx, sampleRecord())
	assert.Equal(t, StatusWriteFailed, st.Kind)
	assert.ErrorContains(t, st.Err, "quota exceeded")
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryBackend())
	require.Equal(t, StatusOK, s.Save(ctx, sampleRecord()).Kind)

	require.Equal(t, StatusOK, s.Clear(ctx).Kind)

	data, st := s.Load(ctx)
	assert.Equal(t, StatusEmpty, st.Kind)
	assert.Equal(t, Default(), data)
}

func TestFileBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewStore(NewFileBackend(dir))

	_, st := s.Load(ctx)
	assert.Equal(t, StatusEmpty, st.Kind)

	want := sampleRecord()
	require.Equal(t, StatusOK, s.Save(ctx, want).Kind)

	got, st := s.Load(ctx)
	require.Equal(t, StatusOK, st.Kind)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")
	assert.Equal(t, StorageKey+".json", entries[0].Name())
}

func TestFileBackendWithoutDir(t *testing.T) {
	ctx := context.Background()
	b := NewFileBackend("")

	_, err := b.Get(ctx, StorageKey)
	assert.ErrorIs(t, err, ErrUnavailable)

	st := NewStore(b).Save(ctx, Default())
	assert.Equal(t, StatusUnavailable, st.Kind)
}

func TestFileBackendDeleteMissing(t *testing.T) {
	b := NewFileBackend(t.TempDir())
	assert.NoError(t, b.Delete(context.Background(), StorageKey))
}
