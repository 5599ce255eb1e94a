// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package selection

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"postforge/internal/template"
)

// maxWeightCopies caps how many pool slots a single template can occupy,
// trading exact proportional fairness for a bounded pool.
const maxWeightCopies = 10

// BuildPool filters candidates down to those usable for the job and
// expands each survivor into weight-many consecutive pool slots.
//
// A candidate survives when its output kind matches, it needs no more
// images than the job supplies, its weight is positive, and (when a
// category filter is given) its category keys include the filter.
// Survivors are ordered by record id so the pool is reproducible across
// processes, then each occupies clamp(weight, 1, 10) slots.
func BuildPool(candidates []Candidate, kind template.OutputKind, imageCount int, category string) []Candidate {
	var eligible []Candidate
	for _, c := range candidates {
		if c.Template.Output != kind {
			continue
		}
		if c.Template.ImageCount > imageCount {
			continue
		}
		if c.Weight <= 0 {
			continue
		}
		if category != "" && !hasCategory(c.CategoryKeys, category) {
			continue
		}
		eligible = append(eligible, c)
	}

	slices.SortFunc(eligible, func(a, b Candidate) int {
		return strings.Compare(a.RecordID, b.RecordID)
	})

	var pool []Candidate
	for _, c := range eligible {
		copies := lo.Clamp(c.Weight, 1, maxWeightCopies)
		for range copies {
			pool = append(pool, c)
		}
	}
	return pool
}

func hasCategory(keys []string, category string) bool {
	for _, k := range keys {
		if strings.EqualFold(k, category) {
			return true
		}
	}
	return false
}
