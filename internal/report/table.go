// Package report renders the aggregate tables of a statistics run:
// frequency counts with optional percentages, weighted time sums, and the
// true-retention summary, as aligned text.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Part is one component of a row key. Numeric parts sort by value, text
// parts byte-wise.
type Part struct {
	Text    string
	Num     int64
	Numeric bool
}

// NumPart keys a row by an integer.
func NumPart(n int64) Part { return Part{Num: n, Numeric: true} }

// TextPart keys a row by a label.
func TextPart(s string) Part { return Part{Text: s} }

func (p Part) String() string {
	if p.Numeric {
		return strconv.FormatInt(p.Num, 10)
	}
	return p.Text
}

func (p Part) less(o Part) bool {
	if p.Numeric && o.Numeric {
		return p.Num < o.Num
	}
	return p.String() < o.String()
}

// Key identifies one table row. B stays zero for one-column tables.
type Key struct {
	A, B Part
}

// Table accumulates keyed rows and renders them sorted by key. A table
// either counts rows or sums a weight per key, never both.
type Table struct {
	title   string
	headers []string
	percent bool

	weighted     bool
	weightHeader string
	formatWeight func(float64) string

	cells map[Key]float64
	total float64
}

// NewCount creates a frequency table. With percent set, per-row and
// cumulative percentages accompany the counts.
func NewCount(title string, percent bool, headers ...string) *Table {
	return &Table{
		title:   title,
		headers: headers,
		percent: percent,
		cells:   make(map[Key]float64),
	}
}

// NewWeighted creates a table that sums a weight per key and renders it
// through format.
func NewWeighted(title, weightHeader string, format func(float64) string, headers ...string) *Table {
	return &Table{
		title:        title,
		headers:      headers,
		weighted:     true,
		weightHeader: weightHeader,
		formatWeight: format,
		cells:        make(map[Key]float64),
	}
}

// Title is the table's display title.
func (t *Table) Title() string { return t.title }

// Add counts one row under the key.
func (t *Table) Add(k Key) {
	t.cells[k]++
	t.total++
}

// AddWeight accumulates a weight under the key.
func (t *Table) AddWeight(k Key, w float64) {
	t.cells[k] += w
	t.total += w
}

// Len is the number of distinct keys accumulated so far.
func (t *Table) Len() int { return len(t.cells) }

// Count returns the accumulated value for a key.
func (t *Table) Count(k Key) float64 { return t.cells[k] }

// Render writes the table. maxRows caps the printed rows; any remainder
// collapses into one trailing line.
func (t *Table) Render(w io.Writer, maxRows int) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", t.title); err != nil {
		return err
	}
	if len(t.cells) == 0 {
		_, err := fmt.Fprintln(w, "(no rows)")
		return err
	}

	keys := make([]Key, 0, len(t.cells))
	for k := range t.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].A != keys[j].A {
			return keys[i].A.less(keys[j].A)
		}
		return keys[i].B.less(keys[j].B)
	})

	shown := keys
	var hidden int
	if maxRows > 0 && len(keys) > maxRows {
		shown = keys[:maxRows]
		hidden = len(keys) - maxRows
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(t.columns(), "\t")+"\t")

	var cum float64
	for _, k := range shown {
		v := t.cells[k]
		cells := []string{k.A.String()}
		if len(t.headers) > 1 {
			cells = append(cells, k.B.String())
		}
		if t.weighted {
			cells = append(cells, t.formatWeight(v))
		} else {
			cum += v
			cells = append(cells, strconv.FormatInt(int64(v), 10))
			if t.percent {
				cells = append(cells, fmt.Sprintf("%.1f", 100*v/t.total))
			}
			cells = append(cells, strconv.FormatInt(int64(cum), 10))
			if t.percent {
				cells = append(cells, fmt.Sprintf("%.1f", 100*cum/t.total))
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if hidden > 0 {
		if _, err := fmt.Fprintf(w, "... %d more rows\n", hidden); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) columns() []string {
	cols := append([]string{}, t.headers...)
	if t.weighted {
		return append(cols, t.weightHeader)
	}
	cols = append(cols, "Count")
	if t.percent {
		cols = append(cols, "Percent")
	}
	cols = append(cols, "Cum Count")
	if t.percent {
		cols = append(cols, "Cum Percent")
	}
	return cols
}

// PrintableTime renders a duration given in hours the way the built-in
// statistics view does: whole hours, else minutes, else seconds.
func PrintableTime(hours float64) string {
	switch {
	case hours > 1:
		return fmt.Sprintf("%.2f hours", hours)
	case hours*60 > 1:
		return fmt.Sprintf("%.2f minutes", hours*60)
	default:
		return fmt.Sprintf("%.2f seconds", hours*3600)
	}
}
