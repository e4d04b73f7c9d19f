package cookie

import "errors"

var (
	ErrCookieNotFound       = errors.New("cookie: not found")
	ErrEmptyName            = errors.New("cookie: empty name")
	ErrInvalidSameSite      = errors.New("cookie: invalid SameSite value")
	ErrInsecureSameSiteNone = errors.New("cookie: SameSite=None requires Secure")
)
