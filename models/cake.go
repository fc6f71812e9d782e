package models

// CakeBalance is a directed debt counter: after a shutout every loser owes
// every winner one cake. Scoped to a season and fully derivable from the
// game log.
type CakeBalance struct {
	ID           int    `json:"id" db:"id"`
	SeasonID     int    `json:"season_id" db:"season_id"`
	DebtorID     int    `json:"debtor_id" db:"debtor_id"`
	CreditorID   int    `json:"creditor_id" db:"creditor_id"`
	Balance      int    `json:"balance" db:"balance"`
	DebtorName   string `json:"debtor_name,omitempty" db:"-"`
	CreditorName string `json:"creditor_name,omitempty" db:"-"`
}
