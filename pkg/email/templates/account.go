package templates

import "strconv"

func expiryNotice(what string, hours int) string {
	switch {
	case hours <= 0:
		return "This " + what + " will expire soon for security reasons."
	case hours == 1:
		return "This " + what + " will expire in 1 hour for security reasons."
	default:
		return "This " + what + " will expire in " + strconv.Itoa(hours) + " hours for security reasons."
	}
}
