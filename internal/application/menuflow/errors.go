package menuflow

import "errors"

var (
	ErrPageFull          = errors.New("page has reached its maximum complements")
	ErrAlreadyConfigured = errors.New("product is already configured on this page")
	ErrNotConfigured     = errors.New("product is not configured on this page")
	ErrProductNotOnPage  = errors.New("product is not offered on this page")
	ErrIncomplete        = errors.New("not every page has reached its minimum complements")
)
