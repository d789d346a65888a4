package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"booking-service/internal/catalog"
	"booking-service/internal/models"
	"booking-service/internal/store"
	"booking-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	theaterName = "Grand Cinema Hall 5"

	// pendingClaim marks an idempotency key whose booking is still being made.
	pendingClaim    = "pending"
	pendingClaimTTL = 30 * time.Second
)

// Notifier accepts booking events for best-effort delivery. Notify must not block.
type Notifier interface {
	Notify(event *models.BookingCreatedEvent)
}

// IdempotencyStore maps client idempotency keys to booking ids. Claim must be
// atomic: of several callers claiming a free key exactly one gets true.
type IdempotencyStore interface {
	Claim(ctx context.Context, key, value string, ttl time.Duration) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

// Options tunes the booking pipeline
type Options struct {
	Area           AreaPolicy
	DeliveryETA    time.Duration
	Idempotency    IdempotencyStore
	IdempotencyTTL time.Duration
}

// BookingService validates, prices and records food and movie bookings
type BookingService struct {
	catalog  *catalog.Catalog
	ledger   *store.Ledger
	notifier Notifier
	opts     Options
	logger   *zap.Logger
	keys     *keyLocks

	now   func() time.Time
	newID func(prefix string) string
}

// NewBookingService creates a new booking service
func NewBookingService(
	catalog *catalog.Catalog,
	ledger *store.Ledger,
	notifier Notifier,
	opts Options,
) *BookingService {
	if opts.Area == nil {
		opts.Area = AnyArea{}
	}
	if opts.DeliveryETA <= 0 {
		opts.DeliveryETA = 45 * time.Minute
	}
	return &BookingService{
		catalog:  catalog,
		ledger:   ledger,
		notifier: notifier,
		opts:     opts,
		logger:   util.GetLogger(),
		keys:     newKeyLocks(),
		now:      time.Now,
		newID:    newBookingID,
	}
}

func newBookingID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.NewString()))
}

// BookFoodRequest is the body of a food booking
type BookFoodRequest struct {
	ItemID         string `json:"itemId"`
	Quantity       int    `json:"quantity"`
	Address        string `json:"address"`
	IdempotencyKey string `json:"-"`
}

// BookMovieRequest is the body of a movie booking
type BookMovieRequest struct {
	MovieID        string   `json:"movieId"`
	Seats          []string `json:"seats"`
	ShowTime       string   `json:"showTime"`
	IdempotencyKey string   `json:"-"`
}

// FoodBookingResponse is returned after a successful food booking
type FoodBookingResponse struct {
	Success bool `json:"success"`
	models.FoodBooking
	Message  string `json:"message"`
	Replayed bool   `json:"replayed,omitempty"`
}

// MovieBookingResponse is returned after a successful movie booking
type MovieBookingResponse struct {
	Success bool `json:"success"`
	models.MovieBooking
	Message  string `json:"message"`
	Replayed bool   `json:"replayed,omitempty"`
}

// BookFood runs the food pipeline. Checks run in a fixed order and the first
// failure is returned: required fields, service area, item lookup, availability.
func (s *BookingService) BookFood(ctx context.Context, req *BookFoodRequest) (*FoodBookingResponse, error) {
	ctx, span := util.StartSpan(ctx, "BookingService.BookFood")
	defer span.End()

	start := time.Now()
	defer func() {
		util.BookingLatency.WithLabelValues(models.BookingTypeFood).Observe(time.Since(start).Seconds())
	}()

	key := foodKey(req.IdempotencyKey)
	unlock := s.keys.lock(key)
	defer unlock()

	prior, claimed, err := s.claim(ctx, key)
	if err == nil && prior != nil {
		if replay, ok := replayFood(prior); ok {
			return replay, nil
		}
		err = fmt.Errorf("%w: %s", ErrIdempotencyConflict, prior.ID)
	}
	if err != nil {
		util.BookingsRejectedTotal.WithLabelValues(models.BookingTypeFood, rejectReason(err)).Inc()
		return nil, err
	}

	item, total, err := s.validateFood(req)
	if err != nil {
		s.release(ctx, key, claimed)
		util.BookingsRejectedTotal.WithLabelValues(models.BookingTypeFood, rejectReason(err)).Inc()
		span.RecordError(err)
		return nil, err
	}

	now := s.now()
	booking := models.FoodBooking{
		BookingID:         s.newID(models.FoodBookingPrefix),
		ItemID:            item.ID,
		ItemName:          item.Name,
		Quantity:          req.Quantity,
		TotalPrice:        total,
		Address:           strings.TrimSpace(req.Address),
		Status:            models.BookingStatusConfirmed,
		EstimatedDelivery: now.Add(s.opts.DeliveryETA).Format("03:04 PM"),
		CreatedAt:         now,
	}

	if err := s.ledger.AppendFood(booking); err != nil {
		s.release(ctx, key, claimed)
		util.BookingsRejectedTotal.WithLabelValues(models.BookingTypeFood, rejectReason(err)).Inc()
		return nil, fmt.Errorf("failed to record booking: %w", err)
	}

	util.BookingsCreatedTotal.WithLabelValues(models.BookingTypeFood).Inc()
	s.logger.Info("Food booking confirmed",
		zap.String("booking_id", booking.BookingID),
		zap.String("item_id", booking.ItemID),
		zap.Int("quantity", booking.Quantity),
		zap.String("total_price", booking.TotalPrice.String()))

	s.complete(ctx, key, claimed, booking.BookingID)
	s.notify(foodEvent(&booking))

	return &FoodBookingResponse{
		Success:     true,
		FoodBooking: booking,
		Message:     fmt.Sprintf("%s order placed successfully! Delivery by %s.", booking.ItemName, booking.EstimatedDelivery),
	}, nil
}

// validateFood returns the ordered item and the priced total
func (s *BookingService) validateFood(req *BookFoodRequest) (models.FoodItem, models.Money, error) {
	itemID := strings.TrimSpace(req.ItemID)
	if itemID == "" || req.Quantity == 0 || strings.TrimSpace(req.Address) == "" {
		return models.FoodItem{}, 0, fmt.Errorf("%w: itemId, quantity and address required", ErrMissingField)
	}
	if req.Quantity < 0 {
		return models.FoodItem{}, 0, fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidField)
	}

	if !s.opts.Area.Allows(req.Address) {
		return models.FoodItem{}, 0, fmt.Errorf("%w: sorry, we currently deliver only within %s", ErrOutOfServiceArea, s.opts.Area.Describe())
	}

	item, ok := s.catalog.LookupFood(itemID)
	if !ok {
		return models.FoodItem{}, 0, fmt.Errorf("%w: Item ID '%s' not found", ErrItemNotFound, itemID)
	}
	if !item.Available {
		return models.FoodItem{}, 0, fmt.Errorf("%w: %s is currently unavailable", ErrItemUnavailable, item.Name)
	}

	total, err := item.Price.Times(req.Quantity)
	if err != nil {
		return models.FoodItem{}, 0, fmt.Errorf("%w: quantity %d is too large", ErrInvalidField, req.Quantity)
	}
	return item, total, nil
}

// BookMovie runs the movie pipeline. Seats are not checked against earlier
// bookings of the same show.
func (s *BookingService) BookMovie(ctx context.Context, req *BookMovieRequest) (*MovieBookingResponse, error) {
	ctx, span := util.StartSpan(ctx, "BookingService.BookMovie")
	defer span.End()

	start := time.Now()
	defer func() {
		util.BookingLatency.WithLabelValues(models.BookingTypeMovie).Observe(time.Since(start).Seconds())
	}()

	key := movieKey(req.IdempotencyKey)
	unlock := s.keys.lock(key)
	defer unlock()

	prior, claimed, err := s.claim(ctx, key)
	if err == nil && prior != nil {
		if replay, ok := replayMovie(prior); ok {
			return replay, nil
		}
		err = fmt.Errorf("%w: %s", ErrIdempotencyConflict, prior.ID)
	}
	if err != nil {
		util.BookingsRejectedTotal.WithLabelValues(models.BookingTypeMovie, rejectReason(err)).Inc()
		return nil, err
	}

	movie, total, err := s.validateMovie(req)
	if err != nil {
		s.release(ctx, key, claimed)
		util.BookingsRejectedTotal.WithLabelValues(models.BookingTypeMovie, rejectReason(err)).Inc()
		span.RecordError(err)
		return nil, err
	}

	booking := models.MovieBooking{
		BookingID:  s.newID(models.MovieBookingPrefix),
		MovieID:    movie.ID,
		MovieTitle: movie.Title,
		Seats:      append([]string(nil), req.Seats...),
		ShowTime:   strings.TrimSpace(req.ShowTime),
		Theater:    theaterName,
		TotalPrice: total,
		Status:     models.BookingStatusConfirmed,
		CreatedAt:  s.now(),
	}

	if err := s.ledger.AppendMovie(booking); err != nil {
		s.release(ctx, key, claimed)
		util.BookingsRejectedTotal.WithLabelValues(models.BookingTypeMovie, rejectReason(err)).Inc()
		return nil, fmt.Errorf("failed to record booking: %w", err)
	}

	util.BookingsCreatedTotal.WithLabelValues(models.BookingTypeMovie).Inc()
	s.logger.Info("Movie booking confirmed",
		zap.String("booking_id", booking.BookingID),
		zap.String("movie_id", booking.MovieID),
		zap.Strings("seats", booking.Seats),
		zap.String("total_price", booking.TotalPrice.String()))

	s.complete(ctx, key, claimed, booking.BookingID)
	s.notify(movieEvent(&booking))

	return &MovieBookingResponse{
		Success:      true,
		MovieBooking: booking,
		Message:      fmt.Sprintf("%s tickets booked successfully!", booking.MovieTitle),
	}, nil
}

// validateMovie returns the booked movie and the priced total
func (s *BookingService) validateMovie(req *BookMovieRequest) (models.Movie, models.Money, error) {
	movieID := strings.TrimSpace(req.MovieID)
	if movieID == "" || len(req.Seats) == 0 {
		return models.Movie{}, 0, fmt.Errorf("%w: movieId and seats required", ErrMissingField)
	}
	for _, seat := range req.Seats {
		if strings.TrimSpace(seat) == "" {
			return models.Movie{}, 0, fmt.Errorf("%w: seat labels must not be empty", ErrInvalidField)
		}
	}
	if showTime := strings.TrimSpace(req.ShowTime); showTime != "" {
		if _, err := time.Parse(time.RFC3339, showTime); err != nil {
			return models.Movie{}, 0, fmt.Errorf("%w: showTime must be an RFC 3339 timestamp", ErrInvalidField)
		}
	}

	movie, ok := s.catalog.LookupMovie(movieID)
	if !ok {
		return models.Movie{}, 0, fmt.Errorf("%w: Movie ID '%s' not found", ErrMovieNotFound, movieID)
	}

	total, err := movie.Price.Times(len(req.Seats))
	if err != nil {
		return models.Movie{}, 0, fmt.Errorf("%w: too many seats", ErrInvalidField)
	}
	return movie, total, nil
}

// ListBookings returns every booking newest first, or one domain in insertion
// order when bookingType is "food" or "movie".
func (s *BookingService) ListBookings(ctx context.Context, bookingType string) ([]models.BookingRecord, error) {
	_, span := util.StartSpan(ctx, "BookingService.ListBookings")
	defer span.End()

	switch bookingType {
	case "":
		return s.ledger.ListAll(), nil
	case models.BookingTypeFood:
		food := s.ledger.FoodBookings()
		records := make([]models.BookingRecord, len(food))
		for i, b := range food {
			records[i] = models.BookingRecord{ID: b.BookingID, Type: models.BookingTypeFood, Details: b, Timestamp: b.CreatedAt}
		}
		return records, nil
	case models.BookingTypeMovie:
		movies := s.ledger.MovieBookings()
		records := make([]models.BookingRecord, len(movies))
		for i, b := range movies {
			records[i] = models.BookingRecord{ID: b.BookingID, Type: models.BookingTypeMovie, Details: b, Timestamp: b.CreatedAt}
		}
		return records, nil
	default:
		return nil, fmt.Errorf("%w: unknown booking type %q", ErrInvalidField, bookingType)
	}
}

// GetBooking retrieves a booking by id
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*models.BookingRecord, error) {
	_, span := util.StartSpan(ctx, "BookingService.GetBooking")
	defer span.End()

	rec, err := s.ledger.Get(bookingID)
	if errors.Is(err, store.ErrBookingNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Menu returns the orderable food items and their categories
func (s *BookingService) Menu() ([]models.FoodItem, []string) {
	return s.catalog.AvailableFood(), s.catalog.Categories()
}

// Available returns everything that can currently be booked
func (s *BookingService) Available() ([]models.FoodItem, []models.Movie) {
	return s.catalog.AvailableFood(), s.catalog.Movies()
}

func (s *BookingService) notify(event *models.BookingCreatedEvent) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(event)
}

func replayFood(rec *models.BookingRecord) (*FoodBookingResponse, bool) {
	booking, ok := rec.Details.(models.FoodBooking)
	if !ok {
		return nil, false
	}
	util.BookingsReplayedTotal.WithLabelValues(models.BookingTypeFood).Inc()
	return &FoodBookingResponse{
		Success:     true,
		FoodBooking: booking,
		Message:     fmt.Sprintf("%s order placed successfully! Delivery by %s.", booking.ItemName, booking.EstimatedDelivery),
		Replayed:    true,
	}, true
}

func replayMovie(rec *models.BookingRecord) (*MovieBookingResponse, bool) {
	booking, ok := rec.Details.(models.MovieBooking)
	if !ok {
		return nil, false
	}
	util.BookingsReplayedTotal.WithLabelValues(models.BookingTypeMovie).Inc()
	return &MovieBookingResponse{
		Success:      true,
		MovieBooking: booking,
		Message:      fmt.Sprintf("%s tickets booked successfully!", booking.MovieTitle),
		Replayed:     true,
	}, true
}

// claim reserves an idempotency key for a new booking. It returns the prior
// booking when the key was used before, and claimed=true when the caller now
// owns the key and must complete or release it. The caller holds the key lock,
// so a pending value here belongs to another process. Store errors are logged
// and the request is booked without idempotency.
func (s *BookingService) claim(ctx context.Context, key string) (*models.BookingRecord, bool, error) {
	if key == "" || s.opts.Idempotency == nil {
		return nil, false, nil
	}

	held, claimed, err := s.opts.Idempotency.Claim(ctx, key, pendingClaim, pendingClaimTTL)
	if err != nil {
		s.logger.Warn("Idempotency claim failed", zap.String("key", key), zap.Error(err))
		return nil, false, nil
	}
	if claimed {
		return nil, true, nil
	}
	if held == pendingClaim {
		return nil, false, ErrBookingInProgress
	}

	rec, err := s.ledger.Get(held)
	if err != nil {
		// keys outlive the in-memory ledger when Redis is shared or the process restarts
		s.logger.Warn("Idempotency key points at unknown booking",
			zap.String("key", key),
			zap.String("booking_id", held))
		return nil, false, fmt.Errorf("%w: %s", ErrIdempotencyConflict, held)
	}

	s.logger.Info("Duplicate booking request detected",
		zap.String("key", key),
		zap.String("booking_id", held))
	return &rec, false, nil
}

func (s *BookingService) complete(ctx context.Context, key string, claimed bool, bookingID string) {
	if !claimed {
		return
	}
	if err := s.opts.Idempotency.Set(ctx, key, bookingID, s.opts.IdempotencyTTL); err != nil {
		s.logger.Warn("Failed to store idempotency key", zap.String("key", key), zap.Error(err))
	}
}

// release frees a claimed key after a failed booking so the client can retry
func (s *BookingService) release(ctx context.Context, key string, claimed bool) {
	if !claimed {
		return
	}
	if err := s.opts.Idempotency.Release(ctx, key); err != nil {
		s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

func foodKey(key string) string {
	if key == "" {
		return ""
	}
	return models.BookingTypeFood + ":" + key
}

func movieKey(key string) string {
	if key == "" {
		return ""
	}
	return models.BookingTypeMovie + ":" + key
}

func foodEvent(b *models.FoodBooking) *models.BookingCreatedEvent {
	return &models.BookingCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.NewString(),
			EventType: models.EventTypeBookingCreated,
			Timestamp: b.CreatedAt,
		},
		BookingID:   b.BookingID,
		BookingType: models.BookingTypeFood,
		Summary:     fmt.Sprintf("New food order: %d x %s", b.Quantity, b.ItemName),
		TotalPrice:  b.TotalPrice,
		Fields: []models.EventField{
			{Name: "Booking ID", Value: b.BookingID},
			{Name: "Item", Value: b.ItemName},
			{Name: "Quantity", Value: strconv.Itoa(b.Quantity)},
			{Name: "Address", Value: b.Address},
			{Name: "Total", Value: b.TotalPrice.String()},
			{Name: "Estimated delivery", Value: b.EstimatedDelivery},
		},
	}
}

func movieEvent(b *models.MovieBooking) *models.BookingCreatedEvent {
	fields := []models.EventField{
		{Name: "Booking ID", Value: b.BookingID},
		{Name: "Movie", Value: b.MovieTitle},
		{Name: "Seats", Value: strings.Join(b.Seats, ", ")},
		{Name: "Total", Value: b.TotalPrice.String()},
	}
	if b.ShowTime != "" {
		fields = append(fields, models.EventField{Name: "Show time", Value: b.ShowTime})
	}
	return &models.BookingCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.NewString(),
			EventType: models.EventTypeBookingCreated,
			Timestamp: b.CreatedAt,
		},
		BookingID:   b.BookingID,
		BookingType: models.BookingTypeMovie,
		Summary:     fmt.Sprintf("New movie booking: %d seat(s) for %s", len(b.Seats), b.MovieTitle),
		TotalPrice:  b.TotalPrice,
		Fields:      fields,
	}
}
