package model

import "time"

// Item status lifecycle. An item enters as pending, becomes available
// once an admin approves it, and ends as swapped when a swap is
// accepted or a redemption completes. Rejection deletes the row, so
// there is no terminal "rejected" status.
const (
	ItemStatusPending   = "pending"
	ItemStatusAvailable = "available"
	ItemStatusSwapped   = "swapped"
)

// Item mirrors the `items` table. Images holds URL paths returned by
// the upload storage; Tags is a free-form label list. Both are stored
// as JSON in a TEXT column. PointValue is zero until approval assigns
// one.
type Item struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Category    string    `json:"category"`
	Type        string    `json:"type"`
	Size        string    `json:"size"`
	Condition   string    `json:"condition"`
	Tags        []string  `json:"tags"`
	Status      string    `json:"status"`
	PointValue  int64     `json:"point_value"`
	UploadedBy  uint64    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
