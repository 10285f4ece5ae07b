package database

import (
	"context"
	"database/sql"
)

// Migrate creates the schema if it does not exist.  Statements are
// idempotent; a proper migration tool can take over once the schema
// starts evolving in production.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL DEFAULT '',
			phone VARCHAR(32) NULL,
			role ENUM('admin','listing_owner','customer') NOT NULL DEFAULT 'customer',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_users_email (email)
		)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT UNSIGNED NOT NULL,
			token_hash CHAR(64) NOT NULL,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_refresh_tokens_hash (token_hash),
			KEY idx_refresh_tokens_user (user_id),
			CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS listings (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			owner_id BIGINT UNSIGNED NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT NULL,
			location VARCHAR(255) NOT NULL,
			address VARCHAR(255) NOT NULL,
			price_per_night_cents BIGINT NOT NULL,
			image_url VARCHAR(512) NULL,
			status ENUM('pending','approved','rejected') NOT NULL DEFAULT 'pending',
			admin_notes TEXT NULL,
			approved_by BIGINT UNSIGNED NULL,
			approved_at DATETIME NULL,
			phone VARCHAR(32) NULL,
			email VARCHAR(255) NULL,
			website VARCHAR(512) NULL,
			rooms_available INT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_listings_owner (owner_id),
			KEY idx_listings_status_created (status, created_at),
			CONSTRAINT fk_listings_owner FOREIGN KEY (owner_id) REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			booking_reference VARCHAR(16) NOT NULL,
			user_id BIGINT UNSIGNED NOT NULL,
			listing_id BIGINT UNSIGNED NOT NULL,
			check_in DATE NOT NULL,
			check_out DATE NOT NULL,
			guests INT NOT NULL,
			rooms INT NOT NULL,
			total_cents BIGINT NOT NULL,
			addon_services JSON NULL,
			status ENUM('pending','confirmed','cancelled') NOT NULL DEFAULT 'confirmed',
			payment_status ENUM('pending','paid','failed') NOT NULL DEFAULT 'pending',
			special_requests TEXT NULL,
			cancelled_at DATETIME NULL,
			cancellation_reason TEXT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_bookings_reference (booking_reference),
			KEY idx_bookings_user_created (user_id, created_at),
			KEY idx_bookings_listing_checkin (listing_id, check_in),
			CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
			CONSTRAINT fk_bookings_listing FOREIGN KEY (listing_id) REFERENCES listings(id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
