package render

import (
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"

	"github.com/sevenweeks-07/vision-anchored-autograder/constants"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

const (
	footerOffset     = 50
	footerLeft       = 20
	footerIndent     = 40
	footerWrapMargin = 80
)

// FooterHeight is the extra canvas height reserved below the image.
func FooterHeight(fontSize int) int {
	return int(float64(fontSize) * 20)
}

// TextItem is one line of text positioned on the canvas; Y is the top of the line.
type TextItem struct {
	X, Y  int
	Text  string
	Color color.RGBA
}

// LayoutFooter positions the assessment summary starting 50px below the
// image. Optional blocks are omitted when absent.
func LayoutFooter(face font.Face, a entity.Assessment, imgW, imgH, fontSize int) []TextItem {
	lineSpacing := int(float64(fontSize) * 1.5)
	y := imgH + footerOffset
	var items []TextItem
	add := func(x int, text string, c color.RGBA) {
		items = append(items, TextItem{X: x, Y: y, Text: text, Color: c})
	}

	add(footerLeft, "OVERALL ASSESSMENT", black)
	y += lineSpacing + 10

	add(footerLeft, "Final Answer:", footerBlue)
	y += lineSpacing
	status := strings.TrimSpace(string(a.FinalAnswerStatus))
	if status == "" {
		status = constants.NotProvided
	}
	add(footerIndent, "- "+strings.ToUpper(status), finalStatusColor(a.FinalAnswerStatus))
	y += lineSpacing

	block := func(title string, body *string, c color.RGBA) {
		if body == nil || *body == "" || *body == constants.NotProvided {
			return
		}
		add(footerLeft, title, footerBlue)
		y += lineSpacing
		for _, line := range WrapText(face, *body, imgW-footerWrapMargin) {
			add(footerIndent, "• "+line, c)
			y += lineSpacing - 5
		}
		y += 10
	}
	block("Key Strengths:", a.KeyStrengths, footerGreen)
	block("Areas for Improvement:", a.AreasForImprovement, footerRed)

	return items
}

func finalStatusColor(s constants.FinalAnswerStatus) color.RGBA {
	switch s {
	case constants.FinalCorrect:
		return footerGreen
	case constants.FinalIncorrect:
		return footerRed
	default:
		return footerOrange
	}
}

func drawItems(dst draw.Image, face font.Face, items []TextItem) {
	for _, it := range items {
		drawTextLine(dst, face, it.X, it.Y, it.Text, it.Color)
	}
}
