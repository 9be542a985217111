package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
// Ownership-sensitive lookups also return it for resources that exist but are
// invisible to the caller, so account-id existence is never leaked to
// non-owners.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrForbidden indicates that the caller does not own a required resource.
var ErrForbidden = errors.New("forbidden")

// ErrInsufficientFunds indicates that the source account balance is below the
// requested amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrTransient indicates a lock-wait timeout or serialization failure from
// the store. The whole operation is safe to retry from scratch; it is never
// retried automatically.
var ErrTransient = errors.New("transient store conflict")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected failure that carries no actionable
// detail for the caller.
var ErrInternal = errors.New("internal error")
