package main

import (
	"strconv"
	"strings"
)

// formatMoney renders whole pesos with dot thousand separators, e.g. $1.250.000
func formatMoney(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	digits := strconv.FormatInt(v, 10)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return sign + "$" + b.String()
}

// progressBar draws a fill bar of the given width with a | at the goal marker
func progressBar(fillPct, markerPct float64, width int) string {
	filled := int(fillPct / 100 * float64(width))
	marker := int(markerPct / 100 * float64(width))
	if marker >= width {
		marker = width - 1
	}

	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < width; i++ {
		switch {
		case i == marker:
			b.WriteByte('|')
		case i < filled:
			b.WriteByte('#')
		default:
			b.WriteByte('.')
		}
	}
	b.WriteByte(']')
	return b.String()
}
