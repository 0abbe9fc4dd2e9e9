// SPDX-License-Identifier: GPL-2.0-or-later

// Package geom reconstructs per-face point triples from half-space
// planes and keeps coordinates on an editable grid.
package geom

import (
	"math"
	"strconv"
	"strings"
)

// Snap rounds v to the nearest multiple of grid. A non-positive grid
// disables snapping.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// RoundHalfUp rounds v to the given number of decimals with ties
// going away from zero. It walks the shortest decimal representation
// of v instead of working in binary floating point, so that e.g.
// 2.005 at two decimals becomes 2.01 and not 2.00.
func RoundHalfUp(v float64, decimals int) float64 {
	if decimals < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if len(fracPart) <= decimals {
		return v
	}

	digits := []byte(intPart + fracPart[:decimals])
	if fracPart[decimals] >= '5' {
		i := len(digits) - 1
		for ; i >= 0; i-- {
			if digits[i] < '9' {
				digits[i]++
				break
			}
			digits[i] = '0'
		}
		if i < 0 {
			digits = append([]byte{'1'}, digits...)
		}
	}

	cut := len(digits) - decimals
	rs := string(digits[:cut])
	if decimals > 0 {
		rs += "." + string(digits[cut:])
	}
	if neg {
		rs = "-" + rs
	}
	out, err := strconv.ParseFloat(rs, 64)
	if err != nil {
		return v
	}
	return out
}
