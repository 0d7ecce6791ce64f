// Package palette provides the marker color palette used for map rendering.
//
// Clusters are colored by rank: rank 0 (the lowest-consuming cluster) takes
// the first color, and ranks beyond the palette size wrap around so a rank
// always resolves to a valid color.
package palette

// Colors is the 16-color marker palette, ordered by cluster rank.
var Colors = []string{
	"black",
	"red",
	"blue",
	"green",
	"purple",
	"orange",
	"darkred",
	"lightred",
	"beige",
	"darkblue",
	"darkgreen",
	"cadetblue",
	"darkpurple",
	"lightblue",
	"pink",
	"gray",
}

// Size returns the number of colors in the palette.
func Size() int {
	return len(Colors)
}

// ColorForRank returns the marker color for a cluster rank.
// Ranks wrap modulo the palette size; negative ranks map to "black".
func ColorForRank(rank int) string {
	if rank < 0 {
		return Colors[0]
	}
	return Colors[rank%len(Colors)]
}
