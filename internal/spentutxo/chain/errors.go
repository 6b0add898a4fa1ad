package chain

import "errors"

var (
	// ErrPrevoutNotFound reports that the referenced transaction or output
	// index does not exist in the lookup source.
	ErrPrevoutNotFound = errors.New("previous output not found")

	// ErrHeightNotFound reports that a requested block height is beyond the
	// known chain tip.
	ErrHeightNotFound = errors.New("block height not found")

	// ErrLookupUnavailable reports a transient transport or service failure.
	ErrLookupUnavailable = errors.New("lookup service unavailable")

	// ErrInsufficientHistory reports that a height has fewer than 11
	// preceding blocks, so no median time past can be computed for it.
	ErrInsufficientHistory = errors.New("insufficient chain history")
)
