package models

// Category is immutable reference data used to tag events and preferences.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DefaultCategories are seeded on a fresh database.
var DefaultCategories = []string{
	"Music",
	"Tech",
	"Sports",
	"Food",
	"Nightlife",
	"Business",
	"Workshops",
	"Travel",
	"Art",
}
