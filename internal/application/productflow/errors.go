package productflow

import "errors"

var (
	ErrQuotaExceeded     = errors.New("complement group is already at its maximum")
	ErrBelowMinimum      = errors.New("a complement group is below its minimum selection")
	ErrVariantRequired   = errors.New("a variant must be selected")
	ErrUnknownVariant    = errors.New("variant does not belong to this product")
	ErrUnknownComplement = errors.New("complement does not belong to this group")
	ErrUnknownGroup      = errors.New("group is not attached to this product")
)
