package flip

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// NewStatsWidget creates a Node that displays FPS, TPS, the number of running
// tweens and whether the scene is busy. The text refreshes every ~0.5
// seconds. It uses a custom internal image and ebitenutil.DebugPrint.
func NewStatsWidget(s *Scene) *Node {
	img := ebiten.NewImage(120, 64)

	node := NewBox("stats_widget", 120, 64, ColorWhite)
	node.SetCustomImage(img)

	var lastUpdate float64
	node.OnUpdate = func(dt float64) {
		lastUpdate += dt
		if lastUpdate < 0.5 {
			return
		}
		lastUpdate = 0

		img.Clear()
		img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(img, statsText(s, ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	return node
}

func statsText(s *Scene, fps, tps float64) string {
	busy := "idle"
	if s.Busy() {
		busy = "busy"
	}
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nTweens: %d\n%s", fps, tps, s.animator.Len(), busy)
}
