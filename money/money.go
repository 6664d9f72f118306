// Package money holds monetary amounts as integer minor units. Display
// strings (currency symbol, sign, thousands separators) exist only at the
// presentation boundary.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Amount is a monetary value in minor units of its currency.
type Amount int64

// ErrMalformed signals a display string that cannot be read as an amount.
var ErrMalformed = errors.New("money: malformed amount")

// ParseDisplay reads amounts as they appear in transaction feeds, e.g.
// "+65,000", "-100,000" or "₦150,000". An empty string is rejected.
func ParseDisplay(s string) (Amount, error) {
	cleaned := strings.TrimSpace(s)
	neg := false
	switch {
	case strings.HasPrefix(cleaned, "+"):
		cleaned = cleaned[1:]
	case strings.HasPrefix(cleaned, "-"):
		neg = true
		cleaned = cleaned[1:]
	}
	cleaned = strings.TrimPrefix(cleaned, "₦")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, ErrMalformed
	}
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("money: parse %q: %w", s, ErrMalformed)
	}
	if neg {
		v = -v
	}
	return Amount(v), nil
}

// String renders the bare decimal form used on the wire, e.g. "1200".
func (a Amount) String() string {
	return strconv.FormatInt(int64(a), 10)
}

// Display renders the amount with the naira symbol and thousands separators.
func (a Amount) Display() string {
	v := int64(a)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "₦" + group(strconv.FormatInt(v, 10))
}

// Signed renders the feed form with an explicit leading sign, e.g. "+65,000".
func (a Amount) Signed() string {
	v := int64(a)
	if v < 0 {
		return "-" + group(strconv.FormatInt(-v, 10))
	}
	return "+" + group(strconv.FormatInt(v, 10))
}

func group(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
