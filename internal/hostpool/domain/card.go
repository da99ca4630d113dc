package domain

import "time"

type CardKind string

const (
	CardCreate CardKind = "create"
	CardRenew  CardKind = "renew"
)

func (k CardKind) Valid() bool { return k == CardCreate || k == CardRenew }

type CardStatus string

const (
	CardUnused CardStatus = "unused"
	CardUsed   CardStatus = "used"
)

// Card is a single-use redemption code. Codes are stored upper case.
type Card struct {
	ID           string
	Code         string
	Kind         CardKind
	Units        int // credits granted by a create card
	ValidityDays int
	Status       CardStatus
	UsedBy       string     // empty until redeemed
	UsedAt       *time.Time // nil until redeemed
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Validity is the credit lifetime (create) or extension (renew) of the card.
func (c Card) Validity() time.Duration {
	return time.Duration(c.ValidityDays) * 24 * time.Hour
}
