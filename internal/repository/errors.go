// Package repository contains data access logic separated from HTTP
// handlers. This file defines error values and helpers shared by the
// entity repositories so that handlers can translate database failures
// into the right HTTP responses without string matching.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrListingNotFound is returned when a listing cannot be found in the DB.
var ErrListingNotFound = errors.New("listing not found")

// ErrBookingNotFound is returned when a booking cannot be found in the DB.
var ErrBookingNotFound = errors.New("booking not found")

// ErrPaymentNotFound is returned when a payment cannot be found in the DB.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrDuplicateTxRef is returned when inserting a payment whose tx_ref
// collides with an existing row. Handlers should translate this into an
// HTTP 409 response.
var ErrDuplicateTxRef = errors.New("duplicate transaction reference")

// ErrRatingOutOfRange is returned when the reviews rating CHECK constraint
// rejects an insert. Handlers should translate this into an HTTP 400
// response, the same as the pre-insert validation.
var ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")

// MySQL server error numbers used to classify constraint failures.
const (
	mysqlErrDuplicateEntry = 1062
	mysqlErrCheckViolated  = 3819
)

// isMySQLErr reports whether err is a MySQL server error with the given number.
func isMySQLErr(err error, number uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}
