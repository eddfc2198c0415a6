package algo

// palette holds the color tokens handed to main entities by rank index.
var palette = [...]string{
	"#60a5fa", // blue
	"#f87171", // red
	"#34d399", // emerald
	"#fbbf24", // amber
	"#a78bfa", // violet
	"#f472b6", // pink
	"#22d3ee", // cyan
	"#fb923c", // orange
	"#818cf8", // indigo
	"#a3e635", // lime
	"#2dd4bf", // teal
	"#e879f9", // fuchsia
	"#94a3b8", // slate
	"#38bdf8", // sky
	"#fb7185", // rose
	"#c084fc", // purple
}

// PaletteSize is the number of distinct color tokens.
const PaletteSize = len(palette)

// PaletteToken returns the color token for a rank index, cycling over the palette.
func PaletteToken(rankIndex int) string {
	if rankIndex < 0 {
		rankIndex = -rankIndex
	}
	return palette[rankIndex%PaletteSize]
}
