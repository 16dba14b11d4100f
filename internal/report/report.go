// Package report builds a compact overview of the cleaned dataset for the
// inspect command and the status endpoint.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/noshowboard/internal/dataset"
)

const topNeighbourhoods = 10

// ColumnSummary captures fill and cardinality per output column.
type ColumnSummary struct {
	Name     string `json:"name"`
	NonEmpty int    `json:"non_empty"`
	Distinct int    `json:"distinct"`
}

// LabelCount is a labelled count, sorted for stable output.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Overview summarizes the cleaned table.
type Overview struct {
	Rows              int             `json:"rows"`
	NoShowRate        float64         `json:"no_show_rate"`
	Outcomes          []LabelCount    `json:"outcomes"`
	TopNeighbourhoods []LabelCount    `json:"top_neighbourhoods"`
	Columns           []ColumnSummary `json:"columns"`
}

// Build scans the cleaned table once and accumulates per-column and
// per-category counts.
func Build(t *dataset.Table) Overview {
	nonEmpty := make([]int, len(dataset.OutputColumns))
	distinct := make([]map[string]struct{}, len(dataset.OutputColumns))
	for i := range distinct {
		distinct[i] = make(map[string]struct{})
	}
	outcomes := map[string]int{}
	neighbourhoods := map[string]int{}
	var noShows int

	for _, a := range t.Rows {
		rec := dataset.Record(a)
		for i, v := range rec {
			if strings.TrimSpace(v) == "" {
				continue
			}
			nonEmpty[i]++
			if len(distinct[i]) <= 10000 { // guard memory
				distinct[i][v] = struct{}{}
			}
		}
		outcomes[a.NoShow]++
		neighbourhoods[a.Neighbourhood]++
		noShows += a.NoShowFlag
	}

	o := Overview{Rows: len(t.Rows)}
	if o.Rows > 0 {
		o.NoShowRate = float64(noShows) / float64(o.Rows)
	}
	for i, name := range dataset.OutputColumns {
		o.Columns = append(o.Columns, ColumnSummary{
			Name:     name,
			NonEmpty: nonEmpty[i],
			Distinct: len(distinct[i]),
		})
	}
	o.Outcomes = sortedCounts(outcomes, 0)
	o.TopNeighbourhoods = sortedCounts(neighbourhoods, topNeighbourhoods)
	return o
}

// String renders the overview for terminal output.
func (o Overview) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rows: %d\n", o.Rows)
	fmt.Fprintf(&b, "no-show rate: %.3f\n", o.NoShowRate)
	b.WriteString("outcomes:\n")
	for _, c := range o.Outcomes {
		fmt.Fprintf(&b, "  %s: %d\n", c.Label, c.Count)
	}
	b.WriteString("top neighbourhoods:\n")
	for _, c := range o.TopNeighbourhoods {
		fmt.Fprintf(&b, "  %s: %d\n", c.Label, c.Count)
	}
	b.WriteString("columns:\n")
	for _, c := range o.Columns {
		fmt.Fprintf(&b, "  %s: non-empty=%d distinct=%d\n", c.Name, c.NonEmpty, c.Distinct)
	}
	return b.String()
}

// sortedCounts orders by count desc then label asc; limit 0 keeps all.
func sortedCounts(m map[string]int, limit int) []LabelCount {
	out := make([]LabelCount, 0, len(m))
	for k, v := range m {
		out = append(out, LabelCount{Label: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
