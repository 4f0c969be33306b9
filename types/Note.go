package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO date format used for issue and expiry dates.
const DateLayout = "2006-01-02"

// Note is the metadata embedded in every live note instance. Notes carry no
// unique serial: instances with equal metadata are fungible and may stack.
type Note struct {
	AccountID    string
	Value        decimal.Decimal
	IssueDate    string
	ExpireDate   string // empty means the note never expires
	Denomination string
}

// Expired reports whether the note has an expiry date strictly before today.
// Notes without an expiry, or with an unparsable one, are never expired.
func (note *Note) Expired(now time.Time) bool {
	if note.ExpireDate == "" {
		return false
	}

	expire, err := time.Parse(DateLayout, note.ExpireDate)
	if err != nil {
		return false
	}

	today, _ := time.Parse(DateLayout, now.Format(DateLayout))

	return expire.Before(today)
}
