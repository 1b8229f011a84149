package theme

import (
	"image/color"

	"git.lost.host/meutraa/lanes/internal/game"
)

type DefaultTheme struct{}

func (t *DefaultTheme) NoteSymbol(lane int) string {
	return syms[lane%len(syms)]
}

func (t *DefaultTheme) NoteColor(denom int) color.RGBA {
	col, ok := noteColors[denom]
	if !ok {
		return noteColors[-1]
	}
	return col
}

func (t *DefaultTheme) HitField(lane int) string {
	return barSyms[lane%len(barSyms)]
}

func (t *DefaultTheme) JudgementColor(j game.Judgement) color.RGBA {
	switch j {
	case game.Perfect:
		return color.RGBA{0, 255, 255, 255}
	case game.Good:
		return color.RGBA{136, 255, 0, 255}
	case game.Miss:
		return color.RGBA{255, 68, 68, 255}
	}
	return color.RGBA{255, 255, 255, 255}
}

var (
	syms       = [...]string{"⬤", "⬤", "⬤", "⬤"}
	barSyms    = [...]string{"-", "-", "-", "-"}
	noteColors = map[int]color.RGBA{
		1:  {236, 30, 0, 255},    // 1/4 red
		2:  {0, 118, 236, 255},   // 1/8 blue
		3:  {106, 0, 236, 255},   // 1/12 purple
		4:  {236, 195, 0, 255},   // 1/16 yellow
		6:  {236, 0, 106, 255},   // 1/24 pink
		8:  {236, 128, 0, 255},   // 1/32 orange
		12: {173, 236, 236, 255}, // 1/48 light blue
		16: {0, 236, 128, 255},   // 1/64 green
		48: {110, 147, 89, 255},  // 1/192 olive
		-1: {255, 255, 255, 255}, // other white
	}
)
