package model

import (
	"strconv"
	"strings"
)

// YearLabel renders the n-th program year: 1 -> "1st Year", 12 -> "12th Year", 22 -> "22nd Year".
func YearLabel(n int) string {
	return strconv.Itoa(n) + ordinalSuffix(n) + " Year"
}

func ordinalSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// YearOrdinal is the inverse of YearLabel; only canonical labels are accepted.
func YearOrdinal(label string) (int, bool) {
	label = strings.TrimSpace(label)
	num, ok := strings.CutSuffix(label, " Year")
	if !ok || len(num) < 3 {
		return 0, false
	}
	n, err := strconv.Atoi(num[:len(num)-2])
	if err != nil || n < 1 {
		return 0, false
	}
	if YearLabel(n) != label {
		return 0, false
	}
	return n, true
}

// YearLabels returns the labels "1st Year" .. YearLabel(duration).
func YearLabels(duration int) []string {
	if duration <= 0 {
		return nil
	}
	out := make([]string, 0, duration)
	for i := 1; i <= duration; i++ {
		out = append(out, YearLabel(i))
	}
	return out
}
