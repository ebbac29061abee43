package utils

import "strconv"

// FormatRupiah renders an amount with Indonesian thousand separators,
// e.g. 1500000 -> "1.500.000". The "Rp " prefix is left to the caller.
func FormatRupiah(amount int64) string {
	digits := strconv.FormatInt(amount, 10)

	negative := false
	if len(digits) > 0 && digits[0] == '-' {
		negative = true
		digits = digits[1:]
	}

	var out []byte
	for i, c := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}

	if negative {
		return "-" + string(out)
	}
	return string(out)
}
