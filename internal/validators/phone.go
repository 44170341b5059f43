package validators

import "strings"

// WhatsAppDigits is the length of a Brazilian mobile number with area code.
const WhatsAppDigits = 11

// NormalizePhone keeps only the digits of raw.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func IsWhatsAppValid(phone string) bool {
	return len(NormalizePhone(phone)) == WhatsAppDigits
}
