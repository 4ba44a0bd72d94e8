package model

import "time"

// SwapRequest status values. A request starts pending and is decided
// exactly once by the item owner; both outcomes are terminal.
const (
	SwapStatusPending  = "pending"
	SwapStatusAccepted = "accepted"
	SwapStatusRejected = "rejected"
)

// SwapRequest mirrors the `swap_requests` table. OwnerID is
// denormalized from the item at request time so that authorization on
// the decision does not need a join.
type SwapRequest struct {
	ID          uint64    `json:"id"`
	ItemID      uint64    `json:"item_id"`
	RequesterID uint64    `json:"requester_id"`
	OwnerID     uint64    `json:"owner_id"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
