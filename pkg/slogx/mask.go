package slogx

import "strings"

const (
	defaultMaskStart = 2
	defaultMaskEnd   = 2
)

// Mask hides everything but the first and last two characters of s so
// identifiers (emails, device ids) can be logged without leaking them.
func Mask(s string) string {
	return MaskN(s, defaultMaskStart, defaultMaskEnd)
}

// MaskN keeps startVisible leading and endVisible trailing characters and
// replaces the rest with '*'. Inputs too short to keep anything hidden are
// replaced entirely, preserving their length.
func MaskN(s string, startVisible, endVisible int) string {
	runes := []rune(s)
	startVisible = max(startVisible, 0)
	endVisible = max(endVisible, 0)

	if len(runes) <= startVisible+endVisible {
		return strings.Repeat("*", len(runes))
	}

	hidden := len(runes) - startVisible - endVisible
	return string(runes[:startVisible]) +
		strings.Repeat("*", hidden) +
		string(runes[len(runes)-endVisible:])
}
