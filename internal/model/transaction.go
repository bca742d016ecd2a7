package model

import "time"

// Transaction is an append-only ledger entry. Delta is positive for points
// earned and negative for points spent or reversed. Entries are never
// mutated or deleted; the ledger is ordered newest-first.
type Transaction struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
	Delta int       `json:"delta"`
}
