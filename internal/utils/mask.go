package utils

import (
	"fmt"
	"net/url"
)

// MaskDSN hides the public key of a Sentry DSN
// (https://<key>@<host>/<project>), keeping host and project visible.
func MaskDSN(dsn string) string {
	if dsn == "" {
		return "--- EMPTY ---"
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return "*** UNKNOWN DSN FORMAT ***"
	}
	if u.User == nil || u.User.Username() == "" {
		return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, u.Path)
	}
	return fmt.Sprintf("%s://***MASKED***@%s%s", u.Scheme, u.Host, u.Path)
}
