package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"booking-service/internal/models"
)

var (
	ErrDuplicateBooking = errors.New("duplicate booking id")
	ErrBookingNotFound  = errors.New("booking not found")
)

type entry struct {
	seq   int
	kind  string
	food  *models.FoodBooking
	movie *models.MovieBooking
}

// Ledger is the append-only in-memory record of confirmed bookings. Records are
// never updated or removed, and every read returns copies.
type Ledger struct {
	mu      sync.RWMutex
	entries []entry
	byID    map[string]int
	food    []int
	movies  []int
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		byID: make(map[string]int),
	}
}

// AppendFood records a food booking
func (l *Ledger) AppendFood(b models.FoodBooking) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, err := l.appendLocked(b.BookingID, entry{kind: models.BookingTypeFood, food: &b})
	if err != nil {
		return err
	}
	l.food = append(l.food, idx)
	return nil
}

// AppendMovie records a movie booking
func (l *Ledger) AppendMovie(b models.MovieBooking) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b.Seats = append([]string(nil), b.Seats...)
	idx, err := l.appendLocked(b.BookingID, entry{kind: models.BookingTypeMovie, movie: &b})
	if err != nil {
		return err
	}
	l.movies = append(l.movies, idx)
	return nil
}

func (l *Ledger) appendLocked(id string, e entry) (int, error) {
	if id == "" {
		return 0, fmt.Errorf("%w: empty id", ErrDuplicateBooking)
	}
	if _, exists := l.byID[id]; exists {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateBooking, id)
	}
	e.seq = len(l.entries)
	l.entries = append(l.entries, e)
	l.byID[id] = e.seq
	return e.seq, nil
}

// FoodBookings lists food bookings in insertion order
func (l *Ledger) FoodBookings() []models.FoodBooking {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.FoodBooking, 0, len(l.food))
	for _, idx := range l.food {
		out = append(out, *l.entries[idx].food)
	}
	return out
}

// MovieBookings lists movie bookings in insertion order
func (l *Ledger) MovieBookings() []models.MovieBooking {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.MovieBooking, 0, len(l.movies))
	for _, idx := range l.movies {
		out = append(out, copyMovie(l.entries[idx].movie))
	}
	return out
}

// Get returns the combined-view record for a booking id
func (l *Ledger) Get(id string) (models.BookingRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx, ok := l.byID[id]
	if !ok {
		return models.BookingRecord{}, fmt.Errorf("%w: %s", ErrBookingNotFound, id)
	}
	return l.entries[idx].record(), nil
}

// ListAll merges both domains, newest first. Records created at the same
// instant keep reverse insertion order.
func (l *Ledger) ListAll() []models.BookingRecord {
	l.mu.RLock()
	snapshot := make([]entry, len(l.entries))
	copy(snapshot, l.entries)
	l.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		ti, tj := snapshot[i].createdAt(), snapshot[j].createdAt()
		if ti.Equal(tj) {
			return snapshot[i].seq > snapshot[j].seq
		}
		return ti.After(tj)
	})

	records := make([]models.BookingRecord, len(snapshot))
	for i, e := range snapshot {
		records[i] = e.record()
	}
	return records
}

// Len returns the number of recorded bookings across both domains
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (e entry) createdAt() time.Time {
	if e.food != nil {
		return e.food.CreatedAt
	}
	return e.movie.CreatedAt
}

func (e entry) record() models.BookingRecord {
	if e.kind == models.BookingTypeFood {
		return models.BookingRecord{
			ID:        e.food.BookingID,
			Type:      models.BookingTypeFood,
			Details:   *e.food,
			Timestamp: e.food.CreatedAt,
		}
	}
	return models.BookingRecord{
		ID:        e.movie.BookingID,
		Type:      models.BookingTypeMovie,
		Details:   copyMovie(e.movie),
		Timestamp: e.movie.CreatedAt,
	}
}

func copyMovie(b *models.MovieBooking) models.MovieBooking {
	out := *b
	out.Seats = append([]string(nil), b.Seats...)
	return out
}
