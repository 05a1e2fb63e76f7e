package dsmr

import (
	"math"
	"strconv"
	"strings"
)

// parseInt reads a base-10 integer up to the first non-digit, skipping
// leading whitespace. Returns nil when no digit is found.
func parseInt(s string) *int64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return nil
	}

	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		// out of range, saturate like ParseInt does
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return &v
		}
		return nil
	}
	return &v
}

// parseFloat returns NaN for anything strconv cannot read.
func parseFloat(s string) Float {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Float(math.NaN())
	}
	return Float(v)
}
