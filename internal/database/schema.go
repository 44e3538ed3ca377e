package database

import (
	"context"
	"database/sql"
)

// schemaStatements contains the idempotent DDL for the four application
// tables. Bookings and reviews cascade when their listing is deleted;
// payments cascade with their booking. The rating range and the tx_ref
// uniqueness are enforced by the database itself so that no code path can
// bypass them.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS listings (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		location VARCHAR(200) NOT NULL,
		price_per_night DECIMAL(10,2) NOT NULL,
		available TINYINT(1) NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT price_non_negative CHECK (price_per_night >= 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		listing_id BIGINT UNSIGNED NOT NULL,
		customer_name VARCHAR(100) NOT NULL,
		customer_email VARCHAR(254) NOT NULL,
		check_in DATE NOT NULL,
		check_out DATE NOT NULL,
		total_price DECIMAL(10,2) NOT NULL,
		booked_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_bookings_listing FOREIGN KEY (listing_id)
			REFERENCES listings (id) ON DELETE CASCADE,
		INDEX idx_bookings_check_in (check_in),
		INDEX idx_bookings_booked_at (booked_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reviews (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		listing_id BIGINT UNSIGNED NOT NULL,
		reviewer_name VARCHAR(100) NOT NULL,
		rating INT UNSIGNED NOT NULL,
		comment TEXT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_reviews_listing FOREIGN KEY (listing_id)
			REFERENCES listings (id) ON DELETE CASCADE,
		CONSTRAINT rating_range CHECK (rating >= 1 AND rating <= 5)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS payments (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		booking_id BIGINT UNSIGNED NOT NULL,
		amount DECIMAL(10,2) NOT NULL,
		email VARCHAR(254) NOT NULL,
		first_name VARCHAR(200) NOT NULL,
		last_name VARCHAR(200) NOT NULL,
		tx_ref VARCHAR(255) NOT NULL,
		chapa_transaction_id VARCHAR(255) NULL,
		status ENUM('Pending','Completed','Failed') NOT NULL DEFAULT 'Pending',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_payments_booking FOREIGN KEY (booking_id)
			REFERENCES bookings (id) ON DELETE CASCADE,
		UNIQUE KEY uq_payments_tx_ref (tx_ref)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing application tables. It is safe to run on
// every startup; existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
