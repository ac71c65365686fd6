package render

import "image/color"

var (
	checkGreen   = color.RGBA{0, 180, 0, 255}
	outlineRed   = color.RGBA{240, 30, 30, 255}
	labelRed     = color.RGBA{200, 0, 0, 255}
	footerGreen  = color.RGBA{0, 150, 0, 255}
	footerRed    = color.RGBA{220, 0, 0, 255}
	footerBlue   = color.RGBA{0, 0, 180, 255}
	footerOrange = color.RGBA{255, 165, 0, 255}
	black        = color.RGBA{0, 0, 0, 255}
	white        = color.RGBA{255, 255, 255, 255}
)

// boxPalette cycles across regions in the debug visualisation.
var boxPalette = []color.RGBA{
	{255, 0, 0, 255},   // red
	{0, 128, 0, 255},   // green
	{0, 0, 255, 255},   // blue
	{128, 0, 128, 255}, // purple
	{255, 165, 0, 255}, // orange
	{0, 255, 255, 255}, // cyan
	{255, 0, 255, 255}, // magenta
	{255, 255, 0, 255}, // yellow
}
