package report

import (
	"fmt"
	"io"

	"github.com/colstat/colstat/internal/stats"
)

// retentionWindow is a trailing span of relative days; open means no
// bounds at all.
type retentionWindow struct {
	label      string
	start, end int64
	open       bool
}

var retentionWindows = []retentionWindow{
	{label: "Today", start: 0, end: 0},
	{label: "Yesterday", start: -1, end: -1},
	{label: "Last week", start: -6, end: 0},
	{label: "Last month", start: -29, end: 0},
	{label: "Last year", start: -364, end: 0},
	{label: "All time", open: true},
}

// RetentionRow is one rendered window of the true-retention summary.
type RetentionRow struct {
	Label  string
	Young  string
	Mature string
	Total  string
	Count  int
}

// RetentionRows computes the true-retention summary over the reviews in
// the retention population, split young/mature by the interval the card
// carried into each answer.
func RetentionRows(reviews []stats.ReviewFacts) []RetentionRow {
	pop := make([]stats.ReviewFacts, 0, len(reviews))
	for _, f := range reviews {
		if f.InRetentionPop {
			pop = append(pop, f)
		}
	}

	rows := make([]RetentionRow, 0, len(retentionWindows))
	for _, w := range retentionWindows {
		var young, mature, all tally
		for _, f := range pop {
			if !w.open && (f.RelativeDays < w.start || f.RelativeDays > w.end) {
				continue
			}
			all.add(f)
			if f.Review.LastInterval < stats.MatureIntervalDays {
				young.add(f)
			} else {
				mature.add(f)
			}
		}
		rows = append(rows, RetentionRow{
			Label:  w.label,
			Young:  young.percent(),
			Mature: mature.percent(),
			Total:  all.percent(),
			Count:  all.rows,
		})
	}
	return rows
}

// tally counts rows, graded answers, and passes within one slice of the
// population.
type tally struct {
	rows    int
	graded  int
	correct int
}

func (t *tally) add(f stats.ReviewFacts) {
	t.rows++
	if f.GradedCorrect != nil {
		t.graded++
		if *f.GradedCorrect {
			t.correct++
		}
	}
}

// percent formats the pass rate the way the statistics view prints it:
// N/A with no graded answers, a bare zero with no passes, otherwise a
// fixed-width percentage.
func (t tally) percent() string {
	if t.graded == 0 {
		return "N/A"
	}
	if t.correct == 0 {
		return "  0   "
	}
	return fmt.Sprintf("%6.1f%%", 100*float64(t.correct)/float64(t.graded))
}

// WriteRetention renders the true-retention summary.
func WriteRetention(w io.Writer, reviews []stats.ReviewFacts) error {
	if _, err := fmt.Fprintln(w, "\nTable 14: True Retention"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "                Young    Mature     Total     Count"); err != nil {
		return err
	}
	for _, row := range RetentionRows(reviews) {
		if _, err := fmt.Fprintf(w, "%-11s%10s%10s%10s%10d\n",
			row.Label, row.Young, row.Mature, row.Total, row.Count); err != nil {
			return err
		}
	}
	return nil
}
