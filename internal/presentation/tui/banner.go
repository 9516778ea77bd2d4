package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Lectern with its version.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Indigo to rose gradient, one color per line
	s1 := termenv.String("  _              _").Foreground(p.Color("#818cf8"))
	s2 := termenv.String(" | |            | |").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(" | |     ___  ___| |_ ___ _ __ _ __").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(" | |    / _ \\/ __| __/ _ \\ '__| '_ \\").Foreground(p.Color("#e879f9"))
	s5 := termenv.String(" | |___|  __/ (__| ||  __/ |  | | | |").Foreground(p.Color("#f472b6"))
	s6 := termenv.String(" |_____|\\___|\\___|\\__\\___|_|  |_| |_|").Foreground(p.Color("#fb7185"))
	tag := termenv.String(" broadcast pages, collect responses  v" + version).Faint()

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println(tag)
	fmt.Println()
}
