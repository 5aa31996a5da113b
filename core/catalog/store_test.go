package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyops/nightplan/core/model"
)

func seedStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	targets := []model.Target{
		{ID: "m31", Name: "Andromeda Galaxy", RAHours: 0.71, DecDeg: 41.27, Magnitude: 3.4, Type: "galaxy", Exposure: 2 * time.Hour},
		{ID: "m42", Name: "Orion Nebula", RAHours: 5.59, DecDeg: -5.39, Magnitude: 4.0, Type: "nebula", Exposure: time.Hour},
		{ID: "m57", Name: "Ring Nebula", RAHours: 18.89, DecDeg: 33.03, Magnitude: 8.8, Type: "nebula", Exposure: 90 * time.Minute,
			History: &model.CaptureHistory{Status: model.StatusComplete}},
	}
	for _, tgt := range targets {
		require.NoError(t, s.Set(tgt))
	}
	return s
}

func TestStoreSetValidates(t *testing.T) {
	s := NewMemoryStore()
	assert.Error(t, s.Set(model.Target{Name: "no id", RAHours: 1, Exposure: time.Hour}))
	assert.Error(t, s.Set(model.Target{ID: "x", RAHours: 25, Exposure: time.Hour}))
	assert.Error(t, s.Set(model.Target{ID: "x", RAHours: 1, DecDeg: 120, Exposure: time.Hour}))
	assert.Error(t, s.Set(model.Target{ID: "x", RAHours: 1}))
}

func TestStoreUpsert(t *testing.T) {
	s := seedStore(t)
	require.NoError(t, s.Set(model.Target{ID: "m31", Name: "Renamed", RAHours: 0.71, DecDeg: 41.27, Type: "galaxy", Exposure: time.Hour}))
	got, ok := s.Get("m31")
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Name)
	assert.Len(t, s.Pool(Filter{}), 3)
}

func TestPoolSortedByID(t *testing.T) {
	s := seedStore(t)
	pool := s.Pool(Filter{})
	require.Len(t, pool, 3)
	assert.Equal(t, "m31", pool[0].ID)
	assert.Equal(t, "m42", pool[1].ID)
	assert.Equal(t, "m57", pool[2].ID)
}

func TestPoolFilters(t *testing.T) {
	s := seedStore(t)

	assert.Len(t, s.Pool(Filter{Types: []string{"nebula"}}), 2)

	pool := s.Pool(Filter{Search: "orion"})
	require.Len(t, pool, 1)
	assert.Equal(t, "m42", pool[0].ID)

	pool = s.Pool(Filter{MaxMagnitude: 5})
	assert.Len(t, pool, 2)

	pool = s.Pool(Filter{ExcludeStatuses: []model.CaptureStatus{model.StatusComplete}})
	require.Len(t, pool, 2)
	for _, tgt := range pool {
		assert.NotEqual(t, model.StatusComplete, tgt.Status())
	}

	pool = s.Pool(Filter{Types: []string{"nebula"}, MaxMagnitude: 5})
	require.Len(t, pool, 1)
	assert.Equal(t, "m42", pool[0].ID)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	payload := `[
		{"id": "m31", "name": "Andromeda Galaxy", "ra_hours": 0.71, "dec_deg": 41.27, "magnitude": 3.4, "type": "galaxy", "exposure": 7200000000000},
		{"id": "m42", "name": "Orion Nebula", "ra_hours": 5.59, "dec_deg": -5.39, "magnitude": 4.0, "type": "nebula", "exposure": 3600000000000}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	s := NewMemoryStore()
	n, err := LoadFile(path, s)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, ok := s.Get("m31")
	require.True(t, ok)
	assert.Equal(t, 2*time.Hour, got.Exposure)
}

func TestLoadFileRejectsBrokenCatalog(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"id": "", "exposure": 1}]`), 0o600))
	s := NewMemoryStore()
	_, err := LoadFile(bad, s)
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte(`not json`), 0o600))
	_, err = LoadFile(garbage, NewMemoryStore())
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.json"), NewMemoryStore())
	assert.Error(t, err)
}
