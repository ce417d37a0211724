// Package amount converts between human-entered decimal strings and the
// fixed-point integer representation used on chain. Conversions are done on
// the digit strings directly so that encoding truncates and never rounds.
package amount

import (
	"fmt"
	"math/big"
	"strings"
)

// MaxInputDecimals is the number of fractional digits accepted from user
// input, independent of the on-chain token precision.
const MaxInputDecimals = 6

// Parse converts a decimal string to the token's integer representation.
// Fractional digits beyond maxInputDecimals are rejected; digits beyond the
// token's precision can therefore never occur, but would be truncated.
func Parse(value string, decimals, maxInputDecimals int) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("amount is empty")
	}
	if strings.HasPrefix(value, "-") {
		return nil, fmt.Errorf("amount must be positive: %s", value)
	}

	whole := value
	frac := ""
	if idx := strings.Index(value, "."); idx >= 0 {
		whole = value[:idx]
		frac = value[idx+1:]
		if strings.Contains(frac, ".") {
			return nil, fmt.Errorf("invalid decimal format: %s", value)
		}
	}
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("invalid decimal format: %s", value)
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return nil, fmt.Errorf("invalid decimal format: %s", value)
	}
	if len(frac) > maxInputDecimals {
		return nil, fmt.Errorf("amount has more than %d decimal places: %s", maxInputDecimals, value)
	}

	// Truncate anything beyond the token precision, pad the rest.
	if len(frac) > decimals {
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", decimals-len(frac))

	result, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal format: %s", value)
	}
	return result, nil
}

// Format renders a fixed-point integer as a decimal string with exactly
// displayDecimals fractional digits, flooring (truncating) beyond that.
func Format(value *big.Int, decimals, displayDecimals int) string {
	if value == nil {
		value = big.NewInt(0)
	}
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	wholePart := new(big.Int).Div(value, divisor)
	remainder := new(big.Int).Mod(value, divisor)

	if displayDecimals <= 0 {
		return wholePart.String()
	}

	remainderStr := remainder.String()
	for len(remainderStr) < decimals {
		remainderStr = "0" + remainderStr
	}
	if len(remainderStr) > displayDecimals {
		remainderStr = remainderStr[:displayDecimals]
	} else {
		remainderStr += strings.Repeat("0", displayDecimals-len(remainderStr))
	}

	return wholePart.String() + "." + remainderStr
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
