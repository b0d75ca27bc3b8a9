package contacts

import "strings"

// Normalize reduces a raw phone-number-like string to a canonical lookup
// key. The rule: strip every non-digit, then drop a leading NANP country
// code, so an 11-digit result starting with 1 becomes the 10-digit national
// number. Anything else (short codes, international, garbage) keeps the
// stripped digits as-is. Normalize is total: every input yields exactly one
// key, possibly empty.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if len(d) == 11 && d[0] == '1' {
		return d[1:]
	}
	return d
}
