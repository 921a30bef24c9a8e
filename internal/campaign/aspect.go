package campaign

import "strings"

// Aspect ratios the image model accepts for ad visuals.
const (
	AspectSquare    = "1:1"
	AspectLandscape = "16:9"
	AspectPortrait  = "9:16"
)

// Resolution tiers for generated visuals.
const (
	Size1K = "1K"
	Size2K = "2K"
	Size4K = "4K"
)

var aspectRatios = map[string]struct{}{
	AspectSquare:    {},
	AspectLandscape: {},
	AspectPortrait:  {},
}

var imageSizes = map[string]struct{}{
	Size1K: {},
	Size2K: {},
	Size4K: {},
}

// NormalizeAspectRatio maps unknown or empty values to the square default.
func NormalizeAspectRatio(value string) string {
	value = strings.TrimSpace(value)
	if _, ok := aspectRatios[value]; ok {
		return value
	}
	return AspectSquare
}

// NormalizeImageSize maps unknown or empty values to the 1K default.
func NormalizeImageSize(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	if _, ok := imageSizes[value]; ok {
		return value
	}
	return Size1K
}
