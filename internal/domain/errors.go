package domain

import "errors"

// Split errors
var (
	ErrInvalidSplit  = errors.New("invalid split inputs for strategy")
	ErrSplitMismatch = errors.New("custom shares do not sum to expense total")
)

// Membership errors
var (
	ErrAlreadyMember    = errors.New("user is already a group member")
	ErrCreatorImmutable = errors.New("group creator cannot be removed or have their role changed")
	ErrLastAdminRemoval = errors.New("cannot remove or demote the last remaining admin")
)
