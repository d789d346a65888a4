package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"booking-service/internal/catalog"
	"booking-service/internal/models"
	"booking-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []*models.BookingCreatedEvent
}

func (n *recordingNotifier) Notify(event *models.BookingCreatedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

func newTestService(t *testing.T) (*BookingService, *store.Ledger, *recordingNotifier) {
	t.Helper()

	cat, err := catalog.New(
		[]models.FoodItem{
			{ID: "f1", Name: "Veg Meals", Price: models.NewMoney(250), Category: "Meals", Available: true},
			{ID: "f2", Name: "Idli", Price: models.NewMoney(60), Category: "Breakfast", Available: false},
			{ID: "f3", Name: "Masala Dosa", Price: models.NewMoney(12.99), Category: "Breakfast", Available: true},
		},
		[]models.Movie{
			{ID: "m1", Title: "Baahubali", DurationMinutes: 159, Price: models.NewMoney(150)},
		},
	)
	require.NoError(t, err)

	ledger := store.NewLedger()
	notifier := &recordingNotifier{}
	svc := NewBookingService(cat, ledger, notifier, Options{
		Area:        NewAreaPolicy("Ongole"),
		DeliveryETA: 45 * time.Minute,
		Idempotency: store.NewMemoryIdempotency(),
	})
	svc.now = func() time.Time { return time.Date(2026, 10, 15, 13, 0, 0, 0, time.UTC) }
	return svc, ledger, notifier
}

func TestBookFood(t *testing.T) {
	svc, ledger, notifier := newTestService(t)

	resp, err := svc.BookFood(context.Background(), &BookFoodRequest{
		ItemID:   "f1",
		Quantity: 2,
		Address:  "12 Main St, Ongole",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, models.NewMoney(500), resp.TotalPrice)
	assert.Equal(t, models.BookingStatusConfirmed, resp.Status)
	assert.Equal(t, "Veg Meals", resp.ItemName)
	assert.Equal(t, "01:45 PM", resp.EstimatedDelivery)
	assert.Contains(t, resp.BookingID, "FOOD-")
	assert.Equal(t, "Veg Meals order placed successfully! Delivery by 01:45 PM.", resp.Message)

	assert.Equal(t, 1, ledger.Len())
	require.Equal(t, 1, notifier.count())
	assert.Equal(t, resp.BookingID, notifier.events[0].BookingID)
	assert.Equal(t, models.BookingTypeFood, notifier.events[0].BookingType)
}

func TestBookFoodPriceIsDecimalSafe(t *testing.T) {
	svc, _, _ := newTestService(t)

	for qty := 1; qty <= 20; qty++ {
		resp, err := svc.BookFood(context.Background(), &BookFoodRequest{ItemID: "f3", Quantity: qty, Address: "ongole"})
		require.NoError(t, err)
		assert.Equal(t, models.Money(1299*qty), resp.TotalPrice)
		assert.Equal(t, fmt.Sprintf("%d.%02d", 1299*qty/100, 1299*qty%100), resp.TotalPrice.String())
	}
}

func TestBookFoodValidationOrder(t *testing.T) {
	tests := []struct {
		name string
		req  BookFoodRequest
		want error
	}{
		{"missing item", BookFoodRequest{Quantity: 1, Address: "Ongole"}, ErrMissingField},
		{"missing quantity", BookFoodRequest{ItemID: "f1", Address: "Ongole"}, ErrMissingField},
		{"blank address", BookFoodRequest{ItemID: "f1", Quantity: 1, Address: "   "}, ErrMissingField},
		{"missing wins over area", BookFoodRequest{ItemID: "", Quantity: 1, Address: "Nowhere"}, ErrMissingField},
		{"negative quantity", BookFoodRequest{ItemID: "f1", Quantity: -2, Address: "Ongole"}, ErrInvalidField},
		{"out of area with valid item", BookFoodRequest{ItemID: "f1", Quantity: 1, Address: "12 Main St, Nowhere"}, ErrOutOfServiceArea},
		{"out of area with unknown item", BookFoodRequest{ItemID: "zz", Quantity: 1, Address: "Nowhere"}, ErrOutOfServiceArea},
		{"out of area with unavailable item", BookFoodRequest{ItemID: "f2", Quantity: 1, Address: "Nowhere"}, ErrOutOfServiceArea},
		{"unknown item", BookFoodRequest{ItemID: "zz", Quantity: 1, Address: "ONGOLE"}, ErrItemNotFound},
		{"unavailable item", BookFoodRequest{ItemID: "f2", Quantity: 1, Address: "Ongole"}, ErrItemUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, ledger, notifier := newTestService(t)

			_, err := svc.BookFood(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, ledger.Len())
			assert.Equal(t, 0, notifier.count())
		})
	}
}

func TestOutOfAreaMessageNamesServiceArea(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.BookFood(context.Background(), &BookFoodRequest{ItemID: "f1", Quantity: 2, Address: "12 Main St, Nowhere"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ongole")
}

func TestAreaCheckCanBeDisabled(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.opts.Area = NewAreaPolicy("")

	_, err := svc.BookFood(context.Background(), &BookFoodRequest{ItemID: "f1", Quantity: 1, Address: "Anywhere"})
	assert.NoError(t, err)
}

func TestBookMovie(t *testing.T) {
	svc, ledger, notifier := newTestService(t)

	resp, err := svc.BookMovie(context.Background(), &BookMovieRequest{
		MovieID:  "m1",
		Seats:    []string{"A1", "A2"},
		ShowTime: "2026-10-16T18:30:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, models.NewMoney(300), resp.TotalPrice)
	assert.Equal(t, []string{"A1", "A2"}, resp.Seats)
	assert.Equal(t, "Baahubali", resp.MovieTitle)
	assert.Equal(t, models.BookingStatusConfirmed, resp.Status)
	assert.Contains(t, resp.BookingID, "MOV-")
	assert.Equal(t, "Baahubali tickets booked successfully!", resp.Message)

	assert.Equal(t, 1, ledger.Len())
	assert.Equal(t, 1, notifier.count())
}

func TestBookMovieShowTimeOptional(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.BookMovie(context.Background(), &BookMovieRequest{MovieID: "m1", Seats: []string{"B4"}})
	require.NoError(t, err)
	assert.Empty(t, resp.ShowTime)
}

func TestBookMovieErrors(t *testing.T) {
	svc, ledger, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.BookMovie(ctx, &BookMovieRequest{Seats: []string{"A1"}})
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = svc.BookMovie(ctx, &BookMovieRequest{MovieID: "m1"})
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = svc.BookMovie(ctx, &BookMovieRequest{MovieID: "m1", Seats: []string{"A1", ""}})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = svc.BookMovie(ctx, &BookMovieRequest{MovieID: "m1", Seats: []string{"A1"}, ShowTime: "evening"})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = svc.BookMovie(ctx, &BookMovieRequest{MovieID: "m9", Seats: []string{"A1"}})
	assert.ErrorIs(t, err, ErrMovieNotFound)

	assert.Equal(t, 0, ledger.Len())
}

func TestSameSeatCanBeBookedTwice(t *testing.T) {
	svc, ledger, _ := newTestService(t)
	req := &BookMovieRequest{MovieID: "m1", Seats: []string{"A1"}, ShowTime: "2026-10-16T21:00:00+05:30"}

	first, err := svc.BookMovie(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.BookMovie(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.BookingID, second.BookingID)
	assert.Equal(t, 2, ledger.Len())
}

func TestBookingIDsAreUnique(t *testing.T) {
	svc, ledger, _ := newTestService(t)

	const n = 1000
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				resp, err := svc.BookFood(context.Background(), &BookFoodRequest{ItemID: "f1", Quantity: 1, Address: "Ongole"})
				if assert.NoError(t, err) {
					ids <- resp.BookingID
				}
				return
			}
			resp, err := svc.BookMovie(context.Background(), &BookMovieRequest{MovieID: "m1", Seats: []string{"A1"}})
			if assert.NoError(t, err) {
				ids <- resp.BookingID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for id := range ids {
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, ledger.Len())
}

func TestListBookingsMatchesResponses(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	clock := time.Date(2026, 10, 15, 13, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	food, err := svc.BookFood(ctx, &BookFoodRequest{ItemID: "f1", Quantity: 1, Address: "Ongole"})
	require.NoError(t, err)
	movie, err := svc.BookMovie(ctx, &BookMovieRequest{MovieID: "m1", Seats: []string{"C3"}})
	require.NoError(t, err)

	all, err := svc.ListBookings(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, movie.BookingID, all[0].ID)
	assert.Equal(t, movie.MovieBooking, all[0].Details)
	assert.Equal(t, food.BookingID, all[1].ID)
	assert.Equal(t, food.FoodBooking, all[1].Details)

	onlyFood, err := svc.ListBookings(ctx, models.BookingTypeFood)
	require.NoError(t, err)
	require.Len(t, onlyFood, 1)
	assert.Equal(t, food.BookingID, onlyFood[0].ID)

	_, err = svc.ListBookings(ctx, "hotel")
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestGetBooking(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.BookFood(context.Background(), &BookFoodRequest{ItemID: "f1", Quantity: 3, Address: "Ongole"})
	require.NoError(t, err)

	rec, err := svc.GetBooking(context.Background(), resp.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingTypeFood, rec.Type)

	_, err = svc.GetBooking(context.Background(), "FOOD-missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestIdempotentReplay(t *testing.T) {
	svc, ledger, notifier := newTestService(t)
	ctx := context.Background()

	req := &BookFoodRequest{ItemID: "f1", Quantity: 2, Address: "Ongole", IdempotencyKey: "abc"}
	first, err := svc.BookFood(ctx, req)
	require.NoError(t, err)
	second, err := svc.BookFood(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.BookingID, second.BookingID)
	assert.True(t, second.Replayed)
	assert.Equal(t, 1, ledger.Len())
	assert.Equal(t, 1, notifier.count())

	// keys are scoped per booking type
	movie, err := svc.BookMovie(ctx, &BookMovieRequest{MovieID: "m1", Seats: []string{"A1"}, IdempotencyKey: "abc"})
	require.NoError(t, err)
	assert.False(t, movie.Replayed)
	assert.Equal(t, 2, ledger.Len())
}

func TestConcurrentRetriesBookOnce(t *testing.T) {
	for round := 0; round < 50; round++ {
		svc, ledger, notifier := newTestService(t)

		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			ids = make(map[string]int)
		)
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp, err := svc.BookFood(context.Background(), &BookFoodRequest{
					ItemID: "f1", Quantity: 1, Address: "Ongole", IdempotencyKey: "k",
				})
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				ids[resp.BookingID]++
				mu.Unlock()
			}()
		}
		wg.Wait()

		require.Equal(t, 1, ledger.Len(), "round %d", round)
		assert.Len(t, ids, 1)
		assert.Equal(t, 1, notifier.count())
		assert.Equal(t, 0, svc.keys.len())
	}
}

func TestFailedBookingReleasesKey(t *testing.T) {
	svc, ledger, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.BookFood(ctx, &BookFoodRequest{ItemID: "f1", Quantity: 1, Address: "Guntur", IdempotencyKey: "k"})
	require.ErrorIs(t, err, ErrOutOfServiceArea)

	resp, err := svc.BookFood(ctx, &BookFoodRequest{ItemID: "f1", Quantity: 1, Address: "Ongole", IdempotencyKey: "k"})
	require.NoError(t, err)
	assert.False(t, resp.Replayed)
	assert.Equal(t, 1, ledger.Len())
}

func TestKeyHeldElsewhere(t *testing.T) {
	svc, ledger, notifier := newTestService(t)
	ctx := context.Background()
	idem := svc.opts.Idempotency

	// another replica is still booking under this key
	_, _, err := idem.Claim(ctx, "food:busy", pendingClaim, time.Minute)
	require.NoError(t, err)
	_, err = svc.BookFood(ctx, &BookFoodRequest{ItemID: "f1", Quantity: 1, Address: "Ongole", IdempotencyKey: "busy"})
	assert.ErrorIs(t, err, ErrBookingInProgress)

	// the key survived a restart but the booking did not
	require.NoError(t, idem.Set(ctx, "movie:stale", "MOV-GONE", time.Minute))
	_, err = svc.BookMovie(ctx, &BookMovieRequest{MovieID: "m1", Seats: []string{"A1"}, IdempotencyKey: "stale"})
	assert.ErrorIs(t, err, ErrIdempotencyConflict)

	assert.Equal(t, 0, ledger.Len())
	assert.Equal(t, 0, notifier.count())
}

func TestHugeQuantityIsRejected(t *testing.T) {
	svc, ledger, notifier := newTestService(t)

	_, err := svc.BookFood(context.Background(), &BookFoodRequest{ItemID: "f1", Quantity: 400000000000000, Address: "Ongole"})
	assert.ErrorIs(t, err, ErrInvalidField)
	assert.Equal(t, 0, ledger.Len())
	assert.Equal(t, 0, notifier.count())

	resp, err := svc.BookFood(context.Background(), &BookFoodRequest{ItemID: "f1", Quantity: 40000000000000, Address: "Ongole"})
	require.NoError(t, err)
	assert.Equal(t, "10000000000000000.00", resp.TotalPrice.String())
}

func TestMenuAndAvailable(t *testing.T) {
	svc, _, _ := newTestService(t)

	items, categories := svc.Menu()
	assert.Len(t, items, 2)
	assert.Equal(t, []string{"Breakfast", "Meals"}, categories)

	food, movies := svc.Available()
	assert.Len(t, food, 2)
	assert.Len(t, movies, 1)
}

func TestNilNotifierIsAllowed(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.notifier = nil

	_, err := svc.BookMovie(context.Background(), &BookMovieRequest{MovieID: "m1", Seats: []string{"A1"}})
	assert.NoError(t, err)
}
