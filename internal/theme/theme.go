package theme

import (
	"image/color"

	"git.lost.host/meutraa/lanes/internal/game"
)

type Theme interface {
	NoteSymbol(lane int) string
	NoteColor(denom int) color.RGBA
	HitField(lane int) string
	JudgementColor(j game.Judgement) color.RGBA
}
