package domain

import (
	"cloud.google.com/go/civil"
)

// Category is the closed set of expense categories a transaction can carry.
// The extraction model is given this set as a hint, but values coming back
// from it are never trusted; use ParseCategory before storing anything.
type Category string

const (
	CategoryFood           Category = "Food"
	CategoryDining         Category = "Dining"
	CategoryTransportation Category = "Transportation"
	CategoryUtilities      Category = "Utilities"
	CategoryShopping       Category = "Shopping"
	CategoryEntertainment  Category = "Entertainment"
	CategoryHealth         Category = "Health"
	CategoryRent           Category = "Rent"
	CategoryOther          Category = "Other"
)

// Categories returns all valid categories in a stable order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryDining,
		CategoryTransportation,
		CategoryUtilities,
		CategoryShopping,
		CategoryEntertainment,
		CategoryHealth,
		CategoryRent,
		CategoryOther,
	}
}

// ParseCategory matches s against the category set. The boolean reports
// whether s was a member; callers usually fall back to CategoryOther.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, true
		}
	}
	return CategoryOther, false
}

// Transaction is one normalized spending entry produced by the pipeline.
// Immutable after creation; this is the exact shape the web layer returns
// and the persistence layer stores.
type Transaction struct {
	Date        civil.Date `json:"transaction_date"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Category    Category   `json:"expense_category"`
}
