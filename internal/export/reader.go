// Package export reads flat collection exports: tab-separated card rows
// that carry each card's review history packed into a single column. One
// export row yields one card plus zero or more reviews, along with the
// collection-level timing fields the exporter repeats on every row.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/colstat/colstat/internal/domain"
)

// Card columns the export header must provide. The FSRS columns
// (c_stability, c_difficulty, csd_fsrs_retrievability) are optional;
// collections without the memory model simply omit them.
var requiredColumns = []string{
	"c_id",
	"c_nid",
	"c_type",
	"c_queue",
	"c_due",
	"c_odue",
	"c_odid",
	"c_ivl",
	"c_factor",
	"revlog_entries",
	"col_TodayDaysElapsed",
	"col_RolloverHour",
}

const historyDelimiter = "-----"

// Export holds everything recovered from one flat export.
type Export struct {
	Cards   []domain.Card
	Reviews []domain.Review

	// RolloverHour and TodayDaysElapsed are collection-level values the
	// exporter repeats on every row; they are read from the first row.
	RolloverHour     int
	TodayDaysElapsed int32

	// RowErrors collects card rows and history entries that could not be
	// parsed. The rest of the export is still usable.
	RowErrors []error
}

// ReadFile reads a flat export from the given path.
func ReadFile(path string) (*Export, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}

// Read parses a flat export from r. Malformed rows are skipped and
// reported through Export.RowErrors; only a missing column, an unreadable
// header, or an export with no usable rows at all aborts the read.
func Read(r io.Reader) (*Export, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("export: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("export: missing required column %q", name)
		}
	}

	var ex Export
	first := true
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			ex.RowErrors = append(ex.RowErrors, fmt.Errorf("row %d: %w", row, err))
			continue
		}

		p := rowParser{rec: rec, cols: cols}
		card := domain.Card{
			ID:             p.integer("c_id"),
			NoteID:         p.looseInteger("c_nid"),
			OriginalDeckID: p.integer("c_odid"),
			Type:           domain.CardType(p.integer("c_type")),
			Queue:          domain.Queue(p.integer("c_queue")),
			Due:            p.integer("c_due"),
			OriginalDue:    p.integer("c_odue"),
			IntervalDays:   p.integer("c_ivl"),
			Factor:         p.looseInteger("c_factor"),
			Memory: domain.MemoryState{
				Stability:  p.float("c_stability"),
				Difficulty: p.float("c_difficulty"),
			},
			Retrievability: p.float("csd_fsrs_retrievability"),
		}
		rollover := int(p.integer("col_RolloverHour"))
		elapsed := int32(p.integer("col_TodayDaysElapsed"))
		if p.err != nil {
			ex.RowErrors = append(ex.RowErrors, fmt.Errorf("row %d: %w", row, p.err))
			continue
		}
		if first {
			ex.RolloverHour = rollover
			ex.TodayDaysElapsed = elapsed
			first = false
		}

		reviews, errs := parseHistory(card.ID, p.text("revlog_entries"))
		for _, e := range errs {
			ex.RowErrors = append(ex.RowErrors, fmt.Errorf("row %d: %w", row, e))
		}

		ex.Cards = append(ex.Cards, card)
		ex.Reviews = append(ex.Reviews, reviews...)
	}

	if first {
		if len(ex.RowErrors) > 0 {
			return nil, fmt.Errorf("export: no usable card rows: %w", ex.RowErrors[0])
		}
		return nil, errors.New("export: no card rows")
	}
	return &ex, nil
}

// rowParser pulls typed fields out of one record, remembering the first
// failure so a row is accepted or rejected as a whole.
type rowParser struct {
	rec  []string
	cols map[string]int
	err  error
}

func (p *rowParser) text(name string) string {
	i, ok := p.cols[name]
	if !ok || i >= len(p.rec) {
		return ""
	}
	return p.rec[i]
}

func (p *rowParser) integer(name string) int64 {
	v, err := strconv.ParseInt(p.text(name), 10, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %s: %w", name, err)
	}
	return v
}

// looseInteger tolerates an empty field; the exporter leaves c_factor
// blank for cards that never earned an ease factor.
func (p *rowParser) looseInteger(name string) int64 {
	s := p.text(name)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %s: %w", name, err)
	}
	return v
}

func (p *rowParser) float(name string) float64 {
	s := p.text(name)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if p.err == nil {
			p.err = fmt.Errorf("column %s: %w", name, err)
		}
		return math.NaN()
	}
	return v
}

// parseHistory unpacks the packed review-history column for one card.
// The exporter joins entries with "-----" and leaves a five-character
// suffix on the whole string, so anything five characters or shorter
// means the card has no reviews.
func parseHistory(cardID int64, raw string) ([]domain.Review, []error) {
	if len(raw) <= 5 {
		return nil, nil
	}
	raw = raw[:len(raw)-5]

	var reviews []domain.Review
	var errs []error
	for i, entry := range strings.Split(raw, historyDelimiter) {
		rev, err := parseHistoryEntry(cardID, entry)
		if err != nil {
			errs = append(errs, fmt.Errorf("history entry %d: %w", i, err))
			continue
		}
		reviews = append(reviews, rev)
	}
	return reviews, errs
}

// parseHistoryEntry decodes one "#"-separated history entry. The seven
// fields are, in order: event id (epoch ms), kind, ease, resulting
// interval, previous interval, time taken (ms), and the ease factor at
// event time. Ease and factor may be blank.
func parseHistoryEntry(cardID int64, entry string) (domain.Review, error) {
	fields := strings.Split(entry, "#")
	if len(fields) != 7 {
		return domain.Review{}, fmt.Errorf("expected 7 fields, got %d", len(fields))
	}

	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return domain.Review{}, fmt.Errorf("event id: %w", err)
	}
	kind, err := strconv.Atoi(fields[1])
	if err != nil {
		return domain.Review{}, fmt.Errorf("kind: %w", err)
	}
	ease, err := blankableInt(fields[2])
	if err != nil {
		return domain.Review{}, fmt.Errorf("ease: %w", err)
	}
	ivl, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return domain.Review{}, fmt.Errorf("interval: %w", err)
	}
	lastIvl, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return domain.Review{}, fmt.Errorf("previous interval: %w", err)
	}
	taken, err := strconv.ParseInt(fields[5], 10, 64)
	if err != nil {
		return domain.Review{}, fmt.Errorf("time taken: %w", err)
	}
	factor, err := blankableInt(fields[6])
	if err != nil {
		return domain.Review{}, fmt.Errorf("factor: %w", err)
	}

	return domain.Review{
		ID:           id,
		CardID:       cardID,
		Ease:         ease,
		Interval:     ivl,
		LastInterval: lastIvl,
		Factor:       int64(factor),
		TakenMillis:  taken,
		Kind:         domain.ReviewKind(kind),
	}, nil
}

func blankableInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
