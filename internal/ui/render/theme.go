package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background    tcell.Color
	Foreground    tcell.Color
	BorderFg      tcell.Color
	TitleFg       tcell.Color
	PromptFg      tcell.Color
	PlaceholderFg tcell.Color
	HiddenFg      tcell.Color
	MatchFg       tcell.Color
	SelectionBg   tcell.Color
	SelectionFg   tcell.Color
	FooterFg      tcell.Color
	ErrorFg       tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:    tcell.ColorDefault,
		Foreground:    tcell.ColorDefault,
		BorderFg:      tcell.Color244,
		TitleFg:       tcell.Color33,
		PromptFg:      tcell.Color33,
		PlaceholderFg: tcell.Color244,
		HiddenFg:      tcell.ColorLightSlateGray,
		MatchFg:       tcell.NewHexColor(0xFFD700), // gold
		SelectionBg:   tcell.Color33,
		SelectionFg:   tcell.ColorWhite,
		FooterFg:      tcell.Color244,
		ErrorFg:       tcell.Color203,
	}
}
