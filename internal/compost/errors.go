package compost

import "errors"

var (
	// ErrInvalidConfiguration indicates a malformed limit, category index,
	// property role or grouping.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidInput indicates a measurement outside its validity range or
	// an input that cannot produce a derived property.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingConfiguration indicates a required property has no reference parameters.
	ErrMissingConfiguration = errors.New("missing configuration")
	// ErrMissingInput indicates a required measurement was not supplied.
	ErrMissingInput = errors.New("missing input")
	// ErrDivisionUndefined indicates an index was requested over zero total weight.
	ErrDivisionUndefined = errors.New("division undefined: total weight is zero")
)
