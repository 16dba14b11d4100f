// Package query derives the six aggregate views the dashboard charts are
// drawn from. Run is a pure function of the cleaned table and the filter
// inputs; it never mutates the table.
package query

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/noshowboard/internal/dataset"
)

// AgeBucketWidth is the fixed width of the age histogram buckets. Fixed
// buckets keep the view deterministic under filtering.
const AgeBucketWidth = 5

// TopNeighbourhoods caps aggregate (d) to the busiest neighbourhoods of the
// filtered subset.
const TopNeighbourhoods = 20

var weekdayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Filters selects the row subset the aggregates are computed over.
// An empty Neighbourhood means no neighbourhood filter; the age bounds are
// inclusive. A neighbourhood absent from the data is not an error, it just
// selects zero rows.
type Filters struct {
	Neighbourhood string `json:"neighbourhood"`
	AgeMin        int    `json:"age_min"`
	AgeMax        int    `json:"age_max"`
}

// Match reports whether an appointment falls inside the filters.
func (f Filters) Match(a dataset.Appointment) bool {
	if f.Neighbourhood != "" && a.Neighbourhood != f.Neighbourhood {
		return false
	}
	return a.Age >= f.AgeMin && a.Age <= f.AgeMax
}

// Count is a single labelled count.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// OutcomeSplit is a labelled count split by attendance outcome. The field
// names mirror the raw No-show labels: No means the patient attended, Yes
// means they did not.
type OutcomeSplit struct {
	Label string `json:"label"`
	No    int    `json:"no"`
	Yes   int    `json:"yes"`
}

// AgeGenderCount is one cell of the age histogram: a fixed age bucket and a
// gender value.
type AgeGenderCount struct {
	Bucket string `json:"bucket"`
	AgeLo  int    `json:"age_lo"`
	Gender string `json:"gender"`
	Count  int    `json:"count"`
}

// DelaySummary is the box-plot summary of DaysDiff for one outcome.
type DelaySummary struct {
	Outcome string  `json:"outcome"`
	Count   int     `json:"count"`
	Min     float64 `json:"min"`
	Q1      float64 `json:"q1"`
	Median  float64 `json:"median"`
	Q3      float64 `json:"q3"`
	Max     float64 `json:"max"`
}

// Result bundles the six aggregate views for one filter selection.
type Result struct {
	RowCount       int              `json:"row_count"`
	Outcomes       []Count          `json:"outcomes"`
	AgeGender      []AgeGenderCount `json:"age_gender"`
	Weekdays       []OutcomeSplit   `json:"weekdays"`
	Neighbourhoods []OutcomeSplit   `json:"neighbourhoods"`
	Chronic        []OutcomeSplit   `json:"chronic"`
	Delay          []DelaySummary   `json:"delay"`
}

// Run computes all six aggregates over the filtered subset of t.
func Run(t *dataset.Table, f Filters) Result {
	outcomes := map[string]int{"No": 0, "Yes": 0}
	type ageKey struct {
		lo     int
		gender string
	}
	ageGender := map[ageKey]int{}
	weekdays := map[string]*OutcomeSplit{}
	for _, d := range weekdayOrder {
		weekdays[d] = &OutcomeSplit{Label: d}
	}
	nbCounts := map[string]int{}
	nbSplits := map[string]*OutcomeSplit{}
	chronic := map[bool]*OutcomeSplit{
		false: {Label: "No"},
		true:  {Label: "Yes"},
	}
	delays := map[string][]float64{"No": nil, "Yes": nil}

	var rows int
	for _, a := range t.Rows {
		if !f.Match(a) {
			continue
		}
		rows++
		outcomes[a.NoShow]++

		lo := (a.Age / AgeBucketWidth) * AgeBucketWidth
		ageGender[ageKey{lo, a.Gender}]++

		if ws, ok := weekdays[a.Weekday]; ok {
			addOutcome(ws, a.NoShow)
		}

		nbCounts[a.Neighbourhood]++
		ns := nbSplits[a.Neighbourhood]
		if ns == nil {
			ns = &OutcomeSplit{Label: a.Neighbourhood}
			nbSplits[a.Neighbourhood] = ns
		}
		addOutcome(ns, a.NoShow)

		addOutcome(chronic[a.HasChronic()], a.NoShow)
		delays[a.NoShow] = append(delays[a.NoShow], float64(a.DaysDiff))
	}

	res := Result{
		RowCount: rows,
		Outcomes: []Count{
			{Label: "No", Count: outcomes["No"]},
			{Label: "Yes", Count: outcomes["Yes"]},
		},
		Chronic: []OutcomeSplit{*chronic[false], *chronic[true]},
	}

	for k, c := range ageGender {
		res.AgeGender = append(res.AgeGender, AgeGenderCount{
			Bucket: fmt.Sprintf("%d-%d", k.lo, k.lo+AgeBucketWidth-1),
			AgeLo:  k.lo,
			Gender: k.gender,
			Count:  c,
		})
	}
	sort.Slice(res.AgeGender, func(i, j int) bool {
		a, b := res.AgeGender[i], res.AgeGender[j]
		if a.AgeLo != b.AgeLo {
			return a.AgeLo < b.AgeLo
		}
		return a.Gender < b.Gender
	})

	for _, d := range weekdayOrder {
		res.Weekdays = append(res.Weekdays, *weekdays[d])
	}

	res.Neighbourhoods = topNeighbourhoods(nbCounts, nbSplits)

	for _, outcome := range []string{"No", "Yes"} {
		res.Delay = append(res.Delay, delaySummary(outcome, delays[outcome]))
	}
	return res
}

func addOutcome(s *OutcomeSplit, outcome string) {
	if outcome == "Yes" {
		s.Yes++
	} else {
		s.No++
	}
}

// topNeighbourhoods keeps the TopNeighbourhoods busiest neighbourhoods of
// the filtered subset. Ties break on name so the view is deterministic.
func topNeighbourhoods(counts map[string]int, splits map[string]*OutcomeSplit) []OutcomeSplit {
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > TopNeighbourhoods {
		names = names[:TopNeighbourhoods]
	}
	out := make([]OutcomeSplit, 0, len(names))
	for _, n := range names {
		out = append(out, *splits[n])
	}
	return out
}

func delaySummary(outcome string, vals []float64) DelaySummary {
	s := DelaySummary{Outcome: outcome, Count: len(vals)}
	if len(vals) == 0 {
		return s
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	s.Min = sorted[0]
	s.Q1 = percentile(sorted, 0.25)
	s.Median = percentile(sorted, 0.5)
	s.Q3 = percentile(sorted, 0.75)
	s.Max = sorted[len(sorted)-1]
	return s
}

// percentile uses linear interpolation between closest ranks, the same
// method box plots conventionally use.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
