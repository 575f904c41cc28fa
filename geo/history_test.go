// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whereami-dev/whereami/spatial"
)

func setupHistoryTest(t *testing.T) HistoryRepository {
	t.Helper()

	db, err := sql.Open("duckdb", filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repository := NewHistoryRepository(db)
	require.NoError(t, repository.CreateSchema())

	return repository
}

func TestHistorySaveAndList(t *testing.T) {
	repository := setupHistoryTest(t)

	base := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	records := []*ResolutionRecord{
		{
			Query:     "Eiffel Tower",
			Service:   "HERE",
			Status:    "success",
			Point:     &spatial.Point{Lng: 2.2945, Lat: 48.858222},
			Duration:  120 * time.Millisecond,
			CreatedAt: base,
		},
		{
			Query:     "xyzzy",
			Status:    "No result found",
			Duration:  340 * time.Millisecond,
			CreatedAt: base.Add(time.Minute),
		},
	}

	for _, record := range records {
		require.NoError(t, repository.SaveResolution(record))
	}

	listed, err := repository.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	// Most recent first.
	assert.Equal(t, "xyzzy", listed[0].Query)
	assert.Equal(t, "No result found", listed[0].Status)
	assert.Empty(t, listed[0].Service)
	assert.Nil(t, listed[0].Point)

	assert.Equal(t, "Eiffel Tower", listed[1].Query)
	assert.Equal(t, "HERE", listed[1].Service)
	assert.Equal(t, 120*time.Millisecond, listed[1].Duration)
	require.NotNil(t, listed[1].Point)
	assert.InDelta(t, 2.2945, listed[1].Point.Lng, 1e-9)
	assert.InDelta(t, 48.858222, listed[1].Point.Lat, 1e-9)
}

func TestHistoryListLimit(t *testing.T) {
	repository := setupHistoryTest(t)

	base := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	queries := []string{"first", "second", "third"}

	for i, query := range queries {
		require.NoError(t, repository.SaveResolution(&ResolutionRecord{
			Query:     query,
			Status:    "success",
			Service:   "Nominatim",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	listed, err := repository.ListRecent(2)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "third", listed[0].Query)
	assert.Equal(t, "second", listed[1].Query)
}

func TestHistoryStats(t *testing.T) {
	repository := setupHistoryTest(t)

	records := []*ResolutionRecord{
		{Query: "Eiffel Tower", Service: "HERE", Status: "success"},
		{Query: "EIFFEL TOWER", Service: "Google Maps API", Status: "success"},
		{Query: "xyzzy", Status: "No result found"},
		{Query: "plugh", Status: "Service unreachable"},
	}

	for _, record := range records {
		require.NoError(t, repository.SaveResolution(record))
	}

	stats, err := repository.Stats()
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Successes)

	// Case folding collapses the two Eiffel Tower spellings.
	assert.Equal(t, 3, stats.UniqueQueries)

	assert.Equal(t, 2, stats.ByStatus["success"])
	assert.Equal(t, 1, stats.ByStatus["No result found"])
	assert.Equal(t, 1, stats.ByService["HERE"])
	assert.Equal(t, 1, stats.ByService["Google Maps API"])
}

func TestHistoryStatsEmpty(t *testing.T) {
	repository := setupHistoryTest(t)

	stats, err := repository.Stats()
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Successes)
	assert.Empty(t, stats.ByStatus)
	assert.Empty(t, stats.ByService)
}
