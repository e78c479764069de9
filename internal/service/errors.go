package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/venue-booking/internal/repository"
)

// Kind classifies a failure so that transports can map it to a status
// without inspecting concrete error types.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUniqueness
	KindNotFound
	KindReferential
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUniqueness:
		return "uniqueness"
	case KindNotFound:
		return "not_found"
	case KindReferential:
		return "referential"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Kind() Kind { return KindValidation }

// UniquenessError reports a name already taken by another record.
type UniquenessError struct {
	Entity string
	Name   string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s named %q already exists", e.Entity, e.Name)
}

func (e *UniquenessError) Kind() Kind { return KindUniqueness }

// NotFoundError reports an id that does not resolve.
type NotFoundError struct {
	Entity string
	ID     uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Kind() Kind { return KindNotFound }

// ReferentialError reports a show pointing at a venue or artist that does
// not exist.
type ReferentialError struct {
	Entity string
	ID     uint64
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("referenced %s %d does not exist", e.Entity, e.ID)
}

func (e *ReferentialError) Kind() Kind { return KindReferential }

// ConflictError reports a delete blocked by dependent shows.
type ConflictError struct {
	Entity string
	ID     uint64
	Shows  int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d has %d show(s); delete them first or cascade", e.Entity, e.ID, e.Shows)
}

func (e *ConflictError) Kind() Kind { return KindConflict }

// StoreError wraps a failure of the underlying store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Kind() Kind { return KindInternal }

// KindOf reports the Kind of the first error in err's chain that carries
// one.  Unknown errors are KindInternal.
func KindOf(err error) Kind {
	var k interface{ Kind() Kind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}

// storeErr wraps err in a StoreError unless it is already part of the
// taxonomy.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var k interface{ Kind() Kind }
	if errors.As(err, &k) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// notFound translates a repository miss into a NotFoundError.
func notFound(err error, id uint64) error {
	switch {
	case errors.Is(err, repository.ErrVenueNotFound):
		return &NotFoundError{Entity: "venue", ID: id}
	case errors.Is(err, repository.ErrArtistNotFound):
		return &NotFoundError{Entity: "artist", ID: id}
	}
	return err
}
