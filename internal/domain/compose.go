package domain

import "strings"

// InsertSpec places a caller-supplied line at a 1-based position of the
// composed output. Position k means "before the line that would otherwise be
// the k-th line"; len(combined)+1 appends at the end.
type InsertSpec struct {
	Position int
	Text     string
}

// Compose merges drawn lines with inserts. Inserts with a non-positive
// position or blank text are ignored. Positions past the end are clamped to
// append-at-end. Order among inserts sharing a position follows input order.
func Compose(combined []string, inserts []InsertSpec) []string {
	last := len(combined) + 1
	byPosition := make(map[int][]string)
	total := len(combined)
	for _, insert := range inserts {
		if insert.Position <= 0 {
			continue
		}
		if strings.TrimSpace(insert.Text) == "" {
			continue
		}
		position := insert.Position
		if position > last {
			position = last
		}
		byPosition[position] = append(byPosition[position], insert.Text)
		total++
	}

	out := make([]string, 0, total)
	out = append(out, byPosition[1]...)
	for i, line := range combined {
		out = append(out, line)
		out = append(out, byPosition[i+2]...)
	}

	return out
}
