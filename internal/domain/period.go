package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// StatementPeriod pins the pipeline to the period the statement covers.
// Statements routinely print dates without a year (or with a two-digit
// one), so every parsed date is forced into Year. Reference is the date
// stamped on any synthesized balancing entry.
type StatementPeriod struct {
	Year      int
	Reference civil.Date
}

// NewStatementPeriod builds a period for the given year with the first
// day of that year as the reference date.
func NewStatementPeriod(year int) StatementPeriod {
	return StatementPeriod{
		Year:      year,
		Reference: civil.Date{Year: year, Month: time.January, Day: 1},
	}
}

// WithReference returns a copy of the period using the given reference date.
func (p StatementPeriod) WithReference(ref civil.Date) StatementPeriod {
	p.Reference = ref
	return p
}
