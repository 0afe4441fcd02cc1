// Package collection reads cards, review history, and timing configuration
// straight from a collection database. The file is opened read-only; a
// statistics run never writes anything back.
package collection

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Registers the sqlite driver

	"github.com/colstat/colstat/internal/domain"
	"github.com/colstat/colstat/internal/timing"
)

// ErrMissingCol means the database has no collection row and cannot be a
// collection file.
var ErrMissingCol = errors.New("collection: col table has no row")

// Collection is a read-only handle on a collection database.
type Collection struct {
	db *sql.DB
}

// Open opens the database at path read-only and verifies it is reachable.
func Open(path string) (*Collection, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open collection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to collection: %w", err)
	}
	return &Collection{db: db}, nil
}

// Close closes the underlying database.
func (c *Collection) Close() error {
	return c.db.Close()
}

// Timing assembles the day-boundary configuration from the col row and the
// config table. hostNow supplies the fallback UTC offset for collections
// that never stored one.
func (c *Collection) Timing(hostNow time.Time) (timing.Config, error) {
	var created int64
	if err := c.db.QueryRow(queryCreated).Scan(&created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return timing.Config{}, ErrMissingCol
		}
		return timing.Config{}, fmt.Errorf("failed to read creation time: %w", err)
	}

	version, ok, err := c.configInt(keySchedulerVer)
	if err != nil {
		return timing.Config{}, err
	}
	if !ok {
		return timing.Config{}, fmt.Errorf("%w: schedVer not stored", timing.ErrSchedulerVersion)
	}

	cfg := timing.Config{
		CreatedAt:        timing.Timestamp(created),
		SchedulerVersion: timing.SchedulerVersion(version),
	}

	if rollover, ok, err := c.configInt(keyRollover); err != nil {
		return timing.Config{}, err
	} else if ok {
		cfg.RolloverHour = &rollover
	}

	if offset, ok, err := c.configInt(keyCreationOffset); err != nil {
		return timing.Config{}, err
	} else if ok {
		cfg.CreationOffset = &offset
	}

	if offset, ok, err := c.configInt(keyLocalOffset); err != nil {
		return timing.Config{}, err
	} else if ok {
		cfg.LocalOffset = offset
		cfg.LocalOffsetSource = timing.OffsetSourceStored
	} else {
		cfg.LocalOffset = timing.SystemOffsetMinutesWest(hostNow)
		cfg.LocalOffsetSource = timing.OffsetSourceSystem
	}

	return cfg, nil
}

// configInt reads one numeric config value. The config table stores values
// as ASCII numbers in a blob; a missing key is normal and reported through
// the second return.
func (c *Collection) configInt(key string) (int, bool, error) {
	var raw []byte
	err := c.db.QueryRow(queryConfigValue, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read config %s: %w", key, err)
	}
	value, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse config %s value %q: %w", key, raw, err)
	}
	return value, true, nil
}

// Cards loads every card row. Memory state comes from the data blob; the
// database never carries a precomputed retrievability, so that column is
// always the absent marker here.
func (c *Collection) Cards() ([]domain.Card, error) {
	rows, err := c.db.Query(queryCards)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		var (
			card       domain.Card
			typ, queue int
			data       sql.NullString
		)
		if err := rows.Scan(
			&card.ID,
			&card.NoteID,
			&card.DeckID,
			&card.OriginalDeckID,
			&typ,
			&queue,
			&card.Due,
			&card.OriginalDue,
			&card.IntervalDays,
			&card.Factor,
			&data,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		card.Type = domain.CardType(typ)
		card.Queue = domain.Queue(queue)
		card.Memory = domain.ParseMemoryState(data.String)
		card.Retrievability = math.NaN()
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cards: %w", err)
	}
	return cards, nil
}

// Reviews loads the full review log ordered by card and time.
func (c *Collection) Reviews() ([]domain.Review, error) {
	rows, err := c.db.Query(queryReviews)
	if err != nil {
		return nil, fmt.Errorf("failed to query review log: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var (
			r    domain.Review
			kind int
		)
		if err := rows.Scan(
			&r.ID,
			&r.CardID,
			&r.Ease,
			&r.Interval,
			&r.LastInterval,
			&r.Factor,
			&r.TakenMillis,
			&kind,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		r.Kind = domain.ReviewKind(kind)
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read review log: %w", err)
	}
	return reviews, nil
}
