package models

import "time"

// FoodItem represents an orderable item in the food catalog
type FoodItem struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Price       Money  `json:"price" yaml:"price"`
	Category    string `json:"category" yaml:"category"`
	Available   bool   `json:"available" yaml:"available"`
	Description string `json:"description" yaml:"description"`
}

// Movie represents a bookable movie listing
type Movie struct {
	ID              string      `json:"id" yaml:"id"`
	Title           string      `json:"title" yaml:"title"`
	DurationMinutes int         `json:"durationMinutes" yaml:"durationMinutes"`
	Price           Money       `json:"price" yaml:"price"`
	ShowTimes       []time.Time `json:"showTimes" yaml:"showTimes"`
}

// FoodBooking is a confirmed food order
type FoodBooking struct {
	BookingID         string    `json:"bookingId"`
	ItemID            string    `json:"itemId"`
	ItemName          string    `json:"itemName"`
	Quantity          int       `json:"quantity"`
	TotalPrice        Money     `json:"totalPrice"`
	Address           string    `json:"address"`
	Status            string    `json:"status"`
	EstimatedDelivery string    `json:"estimatedDelivery"`
	CreatedAt         time.Time `json:"createdAt"`
}

// MovieBooking is a confirmed ticket order
type MovieBooking struct {
	BookingID  string    `json:"bookingId"`
	MovieID    string    `json:"movieId"`
	MovieTitle string    `json:"movieTitle"`
	Seats      []string  `json:"seats"`
	ShowTime   string    `json:"showTime,omitempty"`
	Theater    string    `json:"theater"`
	TotalPrice Money     `json:"totalPrice"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BookingRecord is one entry of the combined cross-domain listing
type BookingRecord struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Details   interface{} `json:"details"`
	Timestamp time.Time   `json:"timestamp"`
}

// Booking types
const (
	BookingTypeFood  = "food"
	BookingTypeMovie = "movie"
)

// Booking statuses
const (
	BookingStatusConfirmed = "Confirmed"
)

// Booking ID prefixes
const (
	FoodBookingPrefix  = "FOOD"
	MovieBookingPrefix = "MOV"
)
