package theme

import "git.lost.host/meutraa/twolane/internal/game"

type Theme interface {
	RenderNote(lane int) string
	RenderTail(lane int) string
	RenderHitField(lane int, pressed bool) string
	RenderLabel(label game.Label) string
	RenderStat(name string, value interface{}) string
	RenderTitle(title string) string
}
