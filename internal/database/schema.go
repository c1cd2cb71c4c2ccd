package database

import (
	"context"
	"database/sql"
)

// EnsureSchema creates the application tables when they do not exist yet.
// AUTO_INCREMENT primary keys give every collection a strictly monotonic id,
// so an id is never reused after a delete.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			member_id     VARCHAR(16)  NULL,
			name          VARCHAR(191) NOT NULL,
			phone         VARCHAR(32)  NOT NULL,
			email         VARCHAR(191) NOT NULL,
			password_hash VARCHAR(191) NOT NULL,
			balance       BIGINT       NOT NULL DEFAULT 0,
			created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_users_email (email),
			UNIQUE KEY uq_users_member_id (member_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS admins (
			id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			email         VARCHAR(191) NOT NULL,
			password_hash VARCHAR(191) NOT NULL,
			name          VARCHAR(191) NOT NULL,
			created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_admins_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS payments (
			id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			user_id        BIGINT UNSIGNED NOT NULL,
			sender_number  VARCHAR(32) NOT NULL,
			amount         BIGINT      NOT NULL,
			receive_number VARCHAR(32) NOT NULL,
			status         ENUM('pending','approved','rejected') NOT NULL DEFAULT 'pending',
			submitted_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			reviewed_at    DATETIME NULL,
			reviewed_by    BIGINT UNSIGNED NULL,
			PRIMARY KEY (id),
			KEY idx_payments_user (user_id),
			KEY idx_payments_status (status)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS reviews (
			id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			user_id       BIGINT UNSIGNED NOT NULL,
			return_number VARCHAR(32) NOT NULL,
			message       TEXT        NOT NULL,
			screenshot    VARCHAR(255) NULL,
			status        VARCHAR(16) NOT NULL DEFAULT 'pending',
			submitted_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			KEY idx_reviews_user (user_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS messages (
			id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			sender_id   BIGINT UNSIGNED NOT NULL,
			receiver_id BIGINT UNSIGNED NOT NULL,
			body        TEXT     NOT NULL,
			sent_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			KEY idx_messages_sender (sender_id),
			KEY idx_messages_receiver (receiver_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
