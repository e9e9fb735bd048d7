// Package repository holds the raw-SQL data access layer. Sentinel errors
// defined here let the usecase and adaptor layers translate storage
// outcomes into business responses without string matching on SQL errors.
package repository

import "errors"

// ErrSlotUnavailable is returned when a hold cannot be created because an
// active hold or a blocking booking already claims the slot. Handlers
// translate this into an HTTP 409 response; it is an expected business
// outcome, not a system fault.
var ErrSlotUnavailable = errors.New("slot unavailable")
