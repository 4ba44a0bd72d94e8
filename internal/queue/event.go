// Package queue defines message payloads exchanged over the message
// broker and the background consumer that turns them into outbound
// notifications.
package queue

// Event types published by the API workflows.
const (
	EventWelcome       = "user.welcome"
	EventItemApproved  = "item.approved"
	EventItemRejected  = "item.rejected"
	EventSwapAccepted  = "swap.accepted"
	EventItemRedeemed  = "item.redeemed"
	EventMonthlyDigest = "user.monthly_digest"
)

// NotificationEvent is published whenever a workflow wants to notify a
// user by email. It carries everything the mailer needs so consumers
// never have to query the primary database.
type NotificationEvent struct {
	Type       string `json:"type"`
	UserID     uint64 `json:"user_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	ItemID     uint64 `json:"item_id,omitempty"`
	ItemTitle  string `json:"item_title,omitempty"`
	Points     int64  `json:"points,omitempty"`
	Detail     string `json:"detail,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
