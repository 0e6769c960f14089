package atomicslice

import "github.com/zeebo/errs"

var (
	// LengthError is returned by Write when the data does not have exactly
	// Len elements. Nothing is written when it is returned.
	LengthError = errs.Class("atomicslice length")

	// CapacityError is returned by TryRead, and panicked by Read, when a
	// generation already has MaxLeases outstanding Leases.
	CapacityError = errs.Class("atomicslice capacity")
)
