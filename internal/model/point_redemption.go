package model

import "time"

// PointRedemption mirrors the `point_redemptions` table. Rows are
// written inside the redemption transaction and never updated.
type PointRedemption struct {
	ID         uint64    `json:"id"`
	ItemID     uint64    `json:"item_id"`
	UserID     uint64    `json:"user_id"`
	PointsUsed int64     `json:"points_used"`
	CreatedAt  time.Time `json:"created_at"`
}
