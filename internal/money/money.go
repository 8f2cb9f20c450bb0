// Package money converts between wire-format amount strings and the
// integral minor units (cents) the ledger stores.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/tinyledger/internal/domain"
)

// ParseCents parses an amount expressed as a decimal string of cents
// (e.g. "5000" or "5000.4") into an integral cent value, rounding half
// away from zero.
func ParseCents(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidAmount, s)
	}

	rounded := d.Round(0)
	if !rounded.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %q does not fit in 64 bits", domain.ErrInvalidAmount, s)
	}

	return rounded.IntPart(), nil
}

// FormatCents renders a cent value back to its wire representation.
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).String()
}
