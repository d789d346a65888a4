package catalog

import (
	"time"

	"booking-service/internal/models"
)

// Default returns the built-in demo catalog. Show times are placed relative to now.
func Default(now time.Time) *Catalog {
	food := []models.FoodItem{
		{ID: "pizza_margherita", Name: "Margherita Pizza", Price: models.NewMoney(12.99), Category: "Pizza", Available: true,
			Description: "Tomato, mozzarella and fresh basil on a thin crust"},
		{ID: "biryani_chicken", Name: "Chicken Biryani", Price: models.NewMoney(14.99), Category: "Rice", Available: true,
			Description: "Dum-cooked basmati rice with spiced chicken"},
		{ID: "burger_classic", Name: "Classic Burger", Price: models.NewMoney(12.99), Category: "Burgers", Available: true,
			Description: "Grilled patty, cheddar, lettuce and house sauce"},
		{ID: "taco_fish", Name: "Fish Taco", Price: models.NewMoney(12.99), Category: "Mexican", Available: true,
			Description: "Crispy fish, slaw and lime crema"},
		{ID: "pasta_alfredo", Name: "Fettuccine Alfredo", Price: models.NewMoney(12.99), Category: "Pasta", Available: true,
			Description: "Fettuccine in a parmesan cream sauce"},
		{ID: "paneer_tikka", Name: "Paneer Tikka", Price: models.NewMoney(11.49), Category: "Starters", Available: false,
			Description: "Tandoor-roasted cottage cheese; out of stock"},
	}

	movies := []models.Movie{
		{ID: "mov_101", Title: "Space Adventures", DurationMinutes: 128, Price: models.NewMoney(15),
			ShowTimes: []time.Time{now.Add(24 * time.Hour).UTC(), now.Add(48 * time.Hour).UTC()}},
		{ID: "mov_303", Title: "Action Blast", DurationMinutes: 112, Price: models.NewMoney(15),
			ShowTimes: []time.Time{now.Add(25 * time.Hour).UTC()}},
	}

	c, err := New(food, movies)
	if err != nil {
		panic("built-in catalog is invalid: " + err.Error())
	}
	return c
}
