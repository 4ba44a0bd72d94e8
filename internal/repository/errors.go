// Package repository implements data access for the marketplace on top
// of database/sql. Sentinel errors defined here let handlers map
// failure scenarios to HTTP statuses without inspecting SQL errors.
// Methods with a Tx suffix operate inside a caller-owned transaction;
// the caller commits or rolls back.
package repository

import "errors"

// ErrItemNotFound is returned when an item lookup matches no row.
// Handlers translate this into HTTP 404.
var ErrItemNotFound = errors.New("item not found")

// ErrSwapNotFound is returned when a swap request lookup matches no
// row. Handlers translate this into HTTP 404.
var ErrSwapNotFound = errors.New("swap request not found")

// ErrItemUnavailable is returned when a workflow needs the item in the
// available state and the conditional update hits 0 rows, including
// when a concurrent workflow already moved it to swapped. Handlers
// translate this into HTTP 409.
var ErrItemUnavailable = errors.New("item is not available")

// ErrItemNotPending is returned when moderation targets an item that
// has already left the pending state. Handlers translate this into
// HTTP 409.
var ErrItemNotPending = errors.New("item is not pending review")

// ErrSwapAlreadyHandled is returned when a decision is applied to a
// swap request that is no longer pending. The decision is terminal,
// so a second accept or reject must fail. Handlers translate this
// into HTTP 409.
var ErrSwapAlreadyHandled = errors.New("swap request already handled")

// ErrDuplicateSwapRequest is returned when the requester already has a
// pending request for the same item. Handlers translate this into
// HTTP 400.
var ErrDuplicateSwapRequest = errors.New("swap already requested for this item")

// ErrInsufficientPoints is returned when a debit would take a balance
// below zero. Handlers translate this into HTTP 400.
var ErrInsufficientPoints = errors.New("insufficient points")

// ErrOwnItem is returned when a user tries to swap-request or redeem
// an item they uploaded themselves. Handlers translate this into
// HTTP 400.
var ErrOwnItem = errors.New("cannot act on your own item")

// ErrEmailExists is returned when registration hits the unique email
// constraint. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")
