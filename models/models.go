package models

// Cart is one row of the carts table. Contents keeps the order products
// were added in; duplicates are allowed. Cost is persisted but never
// computed — every mutation writes it back as zero.
type Cart struct {
	Id       int64   `json:"id" db:"id"`
	Username string  `json:"username" db:"username"`
	Contents []int64 `json:"contents"`
	Cost     float64 `json:"cost" db:"cost"`
}
