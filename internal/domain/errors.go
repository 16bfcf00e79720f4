package domain

import "errors"

var (
	// ErrInvalidSelection: the region/propertyType pair has no entry in the
	// LTV table. Recoverable; the caller re-prompts for a valid selection.
	ErrInvalidSelection = errors.New("region/property selection not supported")

	// ErrSchemaNotFound: the (propertyType, loanSubtype) pair has no field
	// schema. The navigator treats this as zero eligible lenders.
	ErrSchemaNotFound = errors.New("no field schema for selection")

	// ErrNotFound is the generic missing-resource sentinel (config store,
	// storage reads).
	ErrNotFound = errors.New("not found")
)
