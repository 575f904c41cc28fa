// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/whereami-dev/whereami/spatial"
	"github.com/whereami-dev/whereami/utils"
)

// ResolutionRecord is one audit entry for a served query. The history is
// append-only and never consulted during resolution, so it is not a cache.
type ResolutionRecord struct {
	Query     string         `json:"query"`
	Service   string         `json:"service,omitempty"`
	Status    string         `json:"status"`
	Point     *spatial.Point `json:"point,omitempty"`
	Duration  time.Duration  `json:"duration"`
	CreatedAt time.Time      `json:"created_at"`
}

// HistoryStats aggregates the resolution history.
type HistoryStats struct {
	Total         int            `json:"total"`
	Successes     int            `json:"successes"`
	UniqueQueries int            `json:"unique_queries"`
	ByStatus      map[string]int `json:"by_status"`
	ByService     map[string]int `json:"by_service"`
}

// HistoryRepository stores and summarizes resolution outcomes.
type HistoryRepository interface {
	CreateSchema() error
	SaveResolution(record *ResolutionRecord) error
	ListRecent(limit int) ([]*ResolutionRecord, error)
	Stats() (*HistoryStats, error)
}

type sqlHistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a SQL-backed resolution history.
func NewHistoryRepository(db *sql.DB) HistoryRepository {
	return &sqlHistoryRepository{db: db}
}

func (r *sqlHistoryRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS resolutions (
			created_at TIMESTAMP NOT NULL,
			query VARCHAR NOT NULL,
			query_key VARCHAR NOT NULL,
			service VARCHAR,
			status VARCHAR NOT NULL,
			lng DOUBLE,
			lat DOUBLE,
			duration_ms BIGINT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating resolutions table: %w", err)
	}

	return nil
}

func (r *sqlHistoryRepository) SaveResolution(record *ResolutionRecord) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var service sql.NullString
	if record.Service != "" {
		service = sql.NullString{String: record.Service, Valid: true}
	}

	var lng, lat sql.NullFloat64
	if record.Point != nil {
		lng = sql.NullFloat64{Float64: record.Point.Lng, Valid: true}
		lat = sql.NullFloat64{Float64: record.Point.Lat, Valid: true}
	}

	_, err := r.db.Exec(`
		INSERT INTO resolutions (created_at, query, query_key, service, status, lng, lat, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		createdAt,
		record.Query,
		utils.LowerASCIIFolding(record.Query),
		service,
		record.Status,
		lng,
		lat,
		record.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting resolution: %w", err)
	}

	return nil
}

func (r *sqlHistoryRepository) ListRecent(limit int) ([]*ResolutionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT created_at, query, service, status, lng, lat, duration_ms
		FROM resolutions
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing resolutions: %w", err)
	}
	defer rows.Close()

	var records []*ResolutionRecord

	for rows.Next() {
		var (
			record     ResolutionRecord
			service    sql.NullString
			lng, lat   sql.NullFloat64
			durationMs int64
		)

		if err := rows.Scan(&record.CreatedAt, &record.Query, &service, &record.Status, &lng, &lat, &durationMs); err != nil {
			return nil, fmt.Errorf("scanning resolution: %w", err)
		}

		record.Service = service.String
		record.Duration = time.Duration(durationMs) * time.Millisecond

		if lng.Valid && lat.Valid {
			record.Point = &spatial.Point{Lng: lng.Float64, Lat: lat.Float64}
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing resolutions: %w", err)
	}

	return records, nil
}

func (r *sqlHistoryRepository) Stats() (*HistoryStats, error) {
	stats := &HistoryStats{
		ByStatus:  make(map[string]int),
		ByService: make(map[string]int),
	}

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'success'),
			COUNT(DISTINCT query_key)
		FROM resolutions
	`
	if err := r.db.QueryRow(query).Scan(&stats.Total, &stats.Successes, &stats.UniqueQueries); err != nil {
		return nil, fmt.Errorf("counting resolutions: %w", err)
	}

	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM resolutions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("grouping by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int
		)

		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning status group: %w", err)
		}

		stats.ByStatus[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("grouping by status: %w", err)
	}

	serviceRows, err := r.db.Query(`
		SELECT service, COUNT(*)
		FROM resolutions
		WHERE service IS NOT NULL
		GROUP BY service
	`)
	if err != nil {
		return nil, fmt.Errorf("grouping by service: %w", err)
	}
	defer serviceRows.Close()

	for serviceRows.Next() {
		var (
			service string
			count   int
		)

		if err := serviceRows.Scan(&service, &count); err != nil {
			return nil, fmt.Errorf("scanning service group: %w", err)
		}

		stats.ByService[service] = count
	}

	if err := serviceRows.Err(); err != nil {
		return nil, fmt.Errorf("grouping by service: %w", err)
	}

	return stats, nil
}
