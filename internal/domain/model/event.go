package model

// OrderEvent is emitted after an accepted status transition and delivered
// to the counterparty by the dispatcher, decoupled from the transaction.
type OrderEvent struct {
	RecipientID int64
	OrderID     int64
	Status      OrderStatus
	Message     string
}
