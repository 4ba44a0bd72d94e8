package model

import "time"

// AdminLog mirrors the `admin_logs` table, an append-only audit trail
// of moderation actions. Action is a short verb phrase such as
// "approved (150 pts)" or "rejected".
type AdminLog struct {
	ID        uint64    `json:"id"`
	AdminID   uint64    `json:"admin_id"`
	Action    string    `json:"action"`
	ItemID    uint64    `json:"item_id"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
