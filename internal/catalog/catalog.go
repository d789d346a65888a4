package catalog

import (
	"fmt"
	"sort"
	"time"

	"booking-service/internal/models"
)

// Catalog holds the orderable food items and movies. It is never mutated after
// New returns, so concurrent reads need no locking.
type Catalog struct {
	food       []models.FoodItem
	movies     []models.Movie
	foodByID   map[string]*models.FoodItem
	movieByID  map[string]*models.Movie
	categories []string
}

// New builds a catalog from the given items and movies. Entries are copied;
// duplicate identifiers are rejected.
func New(food []models.FoodItem, movies []models.Movie) (*Catalog, error) {
	c := &Catalog{
		food:      make([]models.FoodItem, len(food)),
		movies:    make([]models.Movie, len(movies)),
		foodByID:  make(map[string]*models.FoodItem, len(food)),
		movieByID: make(map[string]*models.Movie, len(movies)),
	}
	copy(c.food, food)
	copy(c.movies, movies)

	seen := make(map[string]struct{})
	for i := range c.food {
		item := &c.food[i]
		if item.ID == "" {
			return nil, fmt.Errorf("food item %d has no id", i)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("food item %s has negative price", item.ID)
		}
		if _, dup := c.foodByID[item.ID]; dup {
			return nil, fmt.Errorf("duplicate food item id: %s", item.ID)
		}
		c.foodByID[item.ID] = item

		if _, ok := seen[item.Category]; !ok && item.Category != "" {
			seen[item.Category] = struct{}{}
			c.categories = append(c.categories, item.Category)
		}
	}
	sort.Strings(c.categories)

	for i := range c.movies {
		movie := &c.movies[i]
		if movie.ID == "" {
			return nil, fmt.Errorf("movie %d has no id", i)
		}
		if movie.Price < 0 {
			return nil, fmt.Errorf("movie %s has negative price", movie.ID)
		}
		if movie.DurationMinutes <= 0 {
			return nil, fmt.Errorf("movie %s has non-positive duration", movie.ID)
		}
		if _, dup := c.movieByID[movie.ID]; dup {
			return nil, fmt.Errorf("duplicate movie id: %s", movie.ID)
		}
		c.movieByID[movie.ID] = movie
	}

	return c, nil
}

// LookupFood returns a copy of the food item with the given id
func (c *Catalog) LookupFood(id string) (models.FoodItem, bool) {
	item, ok := c.foodByID[id]
	if !ok {
		return models.FoodItem{}, false
	}
	return *item, true
}

// LookupMovie returns a copy of the movie with the given id
func (c *Catalog) LookupMovie(id string) (models.Movie, bool) {
	movie, ok := c.movieByID[id]
	if !ok {
		return models.Movie{}, false
	}
	out := *movie
	out.ShowTimes = append([]time.Time(nil), movie.ShowTimes...)
	return out, true
}

// AvailableFood lists the items currently in stock, in catalog order
func (c *Catalog) AvailableFood() []models.FoodItem {
	items := make([]models.FoodItem, 0, len(c.food))
	for _, item := range c.food {
		if item.Available {
			items = append(items, item)
		}
	}
	return items
}

// Categories returns the distinct food categories, sorted
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// Movies lists every movie, in catalog order
func (c *Catalog) Movies() []models.Movie {
	movies := make([]models.Movie, len(c.movies))
	for i, m := range c.movies {
		movies[i] = m
		movies[i].ShowTimes = append([]time.Time(nil), m.ShowTimes...)
	}
	return movies
}
