//-------------------------------------------------------------------------
//
// Akhdar BI Command Center
//
// Copyright (c) 2025 - 2026, Akhdar Perfumes
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package report collects per-row data-quality findings during a
// warehouse build. A build succeeds with a non-empty report; findings
// are a sidecar artifact, not failures.
package report

import (
	"fmt"
	"sort"
	"sync"

	"github.com/akhdar/akhdar-bi/internal/logging"
)

// Category classifies a finding.
type Category string

const (
	// UnresolvedReference covers SKUs with no product mapping and
	// ingredients with no material match. Affected rows are excluded
	// from fact output.
	UnresolvedReference Category = "unresolved_reference"

	// KnownUnknownCost covers materials that exist but carry no usable
	// cost. Not an error; propagates as has_missing_cost.
	KnownUnknownCost Category = "known_unknown_cost"

	// ReconciliationMismatch covers orders whose computed totals differ
	// from the header beyond tolerance.
	ReconciliationMismatch Category = "reconciliation_mismatch"

	// OutOfRangeDate covers orders dated outside the generated calendar.
	OutOfRangeDate Category = "out_of_range_date"

	// ExcludedRow covers raw rows missing a required field.
	ExcludedRow Category = "excluded_row"
)

// Issue is one distinct finding with an occurrence count.
type Issue struct {
	Category Category
	Entity   string
	Detail   string
	Count    int
}

// Report accumulates findings. Safe for concurrent use.
type Report struct {
	mu     sync.Mutex
	counts map[issueKey]int
}

type issueKey struct {
	category Category
	entity   string
	detail   string
}

// New creates an empty report.
func New() *Report {
	return &Report{counts: make(map[issueKey]int)}
}

// Add records one occurrence of a finding.
func (r *Report) Add(category Category, entity, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[issueKey{category, entity, detail}]++
}

// Issues returns all findings sorted by category, entity, detail.
func (r *Report) Issues() []Issue {
	r.mu.Lock()
	defer r.mu.Unlock()

	issues := make([]Issue, 0, len(r.counts))
	for k, n := range r.counts {
		issues = append(issues, Issue{
			Category: k.category,
			Entity:   k.entity,
			Detail:   k.detail,
			Count:    n,
		})
	}
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Category != issues[j].Category {
			return issues[i].Category < issues[j].Category
		}
		if issues[i].Entity != issues[j].Entity {
			return issues[i].Entity < issues[j].Entity
		}
		return issues[i].Detail < issues[j].Detail
	})
	return issues
}

// Count returns the number of occurrences recorded for a category.
func (r *Report) Count(category Category) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for k, c := range r.counts {
		if k.category == category {
			n += c
		}
	}
	return n
}

// Empty reports whether no findings were recorded.
func (r *Report) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.counts) == 0
}

// Log writes the report summary to the global logger.
func (r *Report) Log() {
	issues := r.Issues()
	if len(issues) == 0 {
		logging.Info().Msg("Build completed with no data-quality findings")
		return
	}

	byCategory := make(map[Category]int)
	for _, issue := range issues {
		byCategory[issue.Category] += issue.Count
	}
	event := logging.Warn()
	for cat, n := range byCategory {
		event = event.Int(string(cat), n)
	}
	event.Msg("Build completed with data-quality findings")

	for _, issue := range issues {
		logging.Debug().
			Str("category", string(issue.Category)).
			Str("entity", issue.Entity).
			Str("detail", issue.Detail).
			Int("count", issue.Count).
			Msg("Data-quality finding")
	}
}

// Summary returns a short human-readable description of the report.
func (r *Report) Summary() string {
	issues := r.Issues()
	if len(issues) == 0 {
		return "no findings"
	}
	var total int
	for _, issue := range issues {
		total += issue.Count
	}
	return fmt.Sprintf("%d findings across %d distinct issues", total, len(issues))
}
