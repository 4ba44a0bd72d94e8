package database

import (
	"context"
	"database/sql"
)

// schema holds the idempotent table definitions. `condition` is a
// reserved word in MySQL, hence the item_condition column name. The
// items.status index serves both the public browse query and the
// moderation queue; points is a plain signed INT because the ledger
// guards non-negativity in its UPDATE predicates.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'user',
		points INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS items (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title VARCHAR(150) NOT NULL,
		description TEXT,
		images TEXT,
		category VARCHAR(50) NOT NULL DEFAULT '',
		type VARCHAR(50) NOT NULL DEFAULT '',
		size VARCHAR(20) NOT NULL DEFAULT '',
		item_condition VARCHAR(50) NOT NULL DEFAULT '',
		tags TEXT,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		point_value INT NOT NULL DEFAULT 0,
		uploaded_by BIGINT UNSIGNED NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_items_status (status),
		KEY idx_items_uploader (uploaded_by),
		CONSTRAINT fk_items_uploader FOREIGN KEY (uploaded_by) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS swap_requests (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		item_id BIGINT UNSIGNED NOT NULL,
		requester_id BIGINT UNSIGNED NOT NULL,
		owner_id BIGINT UNSIGNED NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		message VARCHAR(500) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_swaps_item_requester (item_id, requester_id, status),
		KEY idx_swaps_owner (owner_id),
		CONSTRAINT fk_swaps_item FOREIGN KEY (item_id) REFERENCES items (id) ON DELETE CASCADE,
		CONSTRAINT fk_swaps_requester FOREIGN KEY (requester_id) REFERENCES users (id),
		CONSTRAINT fk_swaps_owner FOREIGN KEY (owner_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS point_redemptions (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		item_id BIGINT UNSIGNED NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		points_used INT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_redemptions_user (user_id),
		CONSTRAINT fk_redemptions_item FOREIGN KEY (item_id) REFERENCES items (id) ON DELETE CASCADE,
		CONSTRAINT fk_redemptions_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS admin_logs (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		admin_id BIGINT UNSIGNED NOT NULL,
		action VARCHAR(100) NOT NULL,
		item_id BIGINT UNSIGNED NOT NULL,
		details VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_admin_logs_admin (admin_id),
		CONSTRAINT fk_admin_logs_admin FOREIGN KEY (admin_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates all tables when they do not exist yet. It is
// safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
