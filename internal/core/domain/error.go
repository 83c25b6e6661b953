package domain

import (
	"errors"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrOrderNotFound = errors.New("order not found")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Business errors.
	ErrCaptchaFailed = errors.New("captcha validation failed")
	ErrRateUnknown   = errors.New("no rate for currency")
	ErrForbidden     = errors.New("operation is allowed for the administrator only")
)
