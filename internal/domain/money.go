package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadAmount = errors.New("price must be a non-negative amount like 9.50")

// ParsePrice converts a form-supplied euro amount into cents. The empty
// string means "no price". Amounts are limited to two decimal places so
// repeated summation cannot drift.
func ParsePrice(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return nil, ErrBadAmount
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	euros, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return nil, ErrBadAmount
	}

	var centPart int64
	if hasFrac {
		if frac == "" || len(frac) > 2 {
			return nil, ErrBadAmount
		}
		if len(frac) == 1 {
			frac += "0"
		}
		centPart, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return nil, ErrBadAmount
		}
	}

	cents := euros*100 + centPart
	return &cents, nil
}

// FormatCents renders cents as a plain two-decimal amount, e.g. 800 -> "8.00".
func FormatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
