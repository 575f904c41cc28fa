// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Resolver is the engine surface the REST layer depends on.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*Result, error)
}

// Server exposes the resolution engine over HTTP. The transport is a thin
// adapter: it extracts the query, calls Resolve, and serializes the formatted
// outcome. Every request gets exactly one response; failures are statuses,
// never dropped connections.
type Server struct {
	resolver Resolver
	history  HistoryRepository
}

// NewServer creates a Server. history may be nil to disable the audit log.
func NewServer(resolver Resolver, history HistoryRepository) *Server {
	return &Server{
		resolver: resolver,
		history:  history,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/geo/*query", s.resolve)
	r.GET("/api/history", s.listHistory)
	r.GET("/api/stats", s.getStats)
	r.GET("/healthz", s.healthz)

	return r
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) resolve(ctx *gin.Context) {
	query := strings.TrimPrefix(ctx.Param("query"), "/")

	start := time.Now()
	result, err := s.resolver.Resolve(ctx.Request.Context(), query)
	code, response := Format(result, err)

	s.record(query, result, response.Status, time.Since(start))

	ctx.JSON(code, response)
}

func (s *Server) record(query string, result *Result, status string, duration time.Duration) {
	if s.history == nil {
		return
	}

	record := &ResolutionRecord{
		Query:    query,
		Status:   status,
		Duration: duration,
	}

	if result != nil {
		record.Service = result.Service
		record.Point = &result.Point
	}

	// A history fault must never fail the query it records.
	if err := s.history.SaveResolution(record); err != nil {
		log.Printf("Saving resolution history: %v", err)
	}
}

func (s *Server) listHistory(ctx *gin.Context) {
	if s.history == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "history is not enabled"})

		return
	}

	limit := 50

	if l := ctx.Query("limit"); l != "" {
		if _, err := fmt.Sscanf(l, "%d", &limit); err != nil || limit <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})

			return
		}
	}

	records, err := s.history.ListRecent(limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"resolutions": records})
}

func (s *Server) getStats(ctx *gin.Context) {
	if s.history == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "history is not enabled"})

		return
	}

	stats, err := s.history.Stats()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, stats)
}

func (s *Server) healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
