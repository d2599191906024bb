package utils

import "strings"

// MaskEmail hides the local part of an email address except its first
// character, for display in profile responses.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}

	local, domain := email[:at], email[at+1:]
	return local[:1] + "***@" + domain
}
