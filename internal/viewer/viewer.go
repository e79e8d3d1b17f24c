package viewer

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/proterg/RogueHeroes-sub000/internal/game"
)

const (
	tileSize = 48
	marginX  = 220
	marginY  = 40
)

var terrainColors = map[string]color.RGBA{
	game.TerrainGround: {R: 46, G: 58, B: 44, A: 255},
	"road":             {R: 72, G: 68, B: 60, A: 255},
	"mud":              {R: 74, G: 58, B: 38, A: 255},
	"forest":           {R: 26, G: 66, B: 34, A: 255},
	"water":            {R: 30, G: 52, B: 92, A: 255},
	"wall":             {R: 88, G: 88, B: 92, A: 255},
	"fence":            {R: 110, G: 92, B: 60, A: 255},
}

var sideColors = map[game.Side]color.RGBA{
	game.SidePlayer: {R: 70, G: 130, B: 200, A: 255},
	game.SideEnemy:  {R: 190, G: 70, B: 60, A: 255},
}

// Viewer is the interactive battle window: deployment by mouse, then the
// fight plays out at the nominal tick rate.
type Viewer struct {
	cfg    *game.Config
	battle *game.Battle
	seed   int64

	lastStep time.Time
	paused   bool
	fast     bool
	selected int // roster index for deployment
	notice   string
}

// New builds a viewer around a fresh battle.
func New(cfg *game.Config, seed int64) (*Viewer, error) {
	b, err := game.NewBattle(cfg, seed)
	if err != nil {
		return nil, err
	}
	return &Viewer{cfg: cfg, battle: b, seed: seed, lastStep: time.Now()}, nil
}

// WindowSize returns the pixel size fitting the configured grid.
func (v *Viewer) WindowSize() (int, int) {
	return v.cfg.Grid.Width*tileSize + marginX + marginY,
		v.cfg.Grid.Height*tileSize + 2*marginY
}

func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.WindowSize()
}

func (v *Viewer) Update() error {
	switch v.battle.Status {
	case game.StatusDeploying:
		v.updateDeployment()
	case game.StatusFighting:
		v.updateFighting()
	case game.StatusEnded:
		v.updateEnded()
	}
	return nil
}

func (v *Viewer) updateDeployment() {
	roster := v.cfg.Roster()
	for i := 0; i < len(roster) && i < 9; i++ {
		if inpututil.IsKeyJustPressed(ebiten.Key1 + ebiten.Key(i)) {
			v.selected = i
			if err := v.battle.SelectArchetype(roster[i].ID); err != nil {
				v.notice = err.Error()
			} else {
				v.notice = "selected " + roster[i].ID
			}
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if x, y, ok := v.tileAtCursor(); ok {
			if err := v.battle.PlaceAt(x, y); err != nil {
				v.notice = err.Error()
			} else {
				v.notice = ""
			}
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if x, y, ok := v.tileAtCursor(); ok {
			if err := v.battle.RemoveAt(x, y); err != nil {
				v.notice = err.Error()
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		if err := v.battle.ConfirmPhase(); err != nil {
			v.notice = err.Error()
		} else {
			v.notice = ""
			v.lastStep = time.Now()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		if err := v.battle.AutoDeploy(); err != nil {
			v.notice = err.Error()
		} else {
			v.lastStep = time.Now()
		}
	}
}

func (v *Viewer) updateFighting() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.paused = !v.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		v.fast = !v.fast
	}
	if v.paused {
		return
	}
	interval := game.NominalTickDuration
	if v.fast {
		interval = game.NominalTickDuration / 10
	}
	if time.Since(v.lastStep) >= interval {
		v.battle.Step()
		v.lastStep = time.Now()
	}
}

func (v *Viewer) updateEnded() {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.seed++
		if b, err := game.NewBattle(v.cfg, v.seed); err == nil {
			v.battle = b
			v.notice = ""
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if err := clipboard.WriteAll(v.report()); err != nil {
			v.notice = "clipboard: " + err.Error()
		} else {
			v.notice = "report copied"
		}
	}
}

func (v *Viewer) tileAtCursor() (int, int, bool) {
	cx, cy := ebiten.CursorPosition()
	x := (cx - marginX) / tileSize
	y := (cy - marginY) / tileSize
	if cx < marginX || cy < marginY || x >= v.cfg.Grid.Width || y >= v.cfg.Grid.Height {
		return 0, 0, false
	}
	return x, y, true
}

// report builds the end-of-battle text copied to the clipboard.
func (v *Viewer) report() string {
	b := v.battle
	var sb strings.Builder
	fmt.Fprintf(&sb, "battle seed=%d winner=%s ticks=%d\n", v.seed, b.Winner, b.Tick)
	fmt.Fprintf(&sb, "attacks=%d deaths=%d\n", len(b.Events.Attacks()), len(b.Events.Deaths()))
	for _, u := range b.Units {
		status := "dead"
		if u.Alive() {
			status = fmt.Sprintf("%d/%d hp", u.HP, u.MaxHP())
		}
		fmt.Fprintf(&sb, "  %s %s #%d: %s\n", u.Side, u.Archetype.ID, u.ID, status)
	}
	return sb.String()
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	v.drawField(screen)
	v.drawUnits(screen)
	v.drawSidebar(screen)
}

func (v *Viewer) drawField(screen *ebiten.Image) {
	bf := v.battle.Field
	for y := 0; y < bf.Height; y++ {
		for x := 0; x < bf.Width; x++ {
			px := float32(marginX + x*tileSize)
			py := float32(marginY + y*tileSize)
			col, ok := terrainColors[bf.KindAt(x, y).ID]
			if !ok {
				col = terrainColors[game.TerrainGround]
			}
			vector.FillRect(screen, px, py, tileSize, tileSize, col, false)
			vector.StrokeRect(screen, px, py, tileSize, tileSize, 1,
				color.RGBA{R: 20, G: 26, B: 20, A: 120}, false)
		}
	}
	if v.battle.Status == game.StatusDeploying {
		// Outline the player's deployment rows.
		zone := color.RGBA{R: 90, G: 150, B: 220, A: 180}
		vector.StrokeRect(screen, marginX, marginY,
			float32(bf.Width*tileSize), float32(game.DeployZoneDepth*tileSize), 2, zone, false)
	}
}

func (v *Viewer) drawUnits(screen *ebiten.Image) {
	for _, u := range v.battle.Units {
		if !u.Alive() {
			continue
		}
		px := float32(marginX + u.X*tileSize)
		py := float32(marginY + u.Y*tileSize)
		w := float32(u.Size() * tileSize)

		body := sideColors[u.Side]
		if u.State == game.StateSetting {
			body.A = 200
		}
		vector.FillRect(screen, px+3, py+3, w-6, tileSize-6, body, false)

		// Health bar along the top edge of the footprint.
		frac := float32(u.HP) / float32(u.MaxHP())
		vector.FillRect(screen, px+3, py+3, (w-6)*frac, 4,
			color.RGBA{R: 80, G: 200, B: 90, A: 255}, false)

		label := u.Archetype.ID
		if len(label) > 3 {
			label = label[:3]
		}
		ebitenutil.DebugPrintAt(screen, label, int(px)+6, int(py)+tileSize/2)
	}
}

func (v *Viewer) drawSidebar(screen *ebiten.Image) {
	b := v.battle
	lines := []string{
		fmt.Sprintf("tick %d", b.Tick),
		fmt.Sprintf("status %s", b.Status),
	}
	switch b.Status {
	case game.StatusDeploying:
		lines = append(lines,
			fmt.Sprintf("budget %d", b.Deployment.BudgetRemaining()),
			"", "1-9 select  LMB place", "RMB remove  Enter confirm", "A auto-deploy", "")
		for i, a := range v.cfg.Roster() {
			marker := " "
			if i == v.selected {
				marker = ">"
			}
			lines = append(lines, fmt.Sprintf("%s %d %s x%d", marker, i+1, a.ID,
				b.Deployment.PoolRemaining()[a.ID]))
		}
	case game.StatusFighting:
		mode := "space pause  f fast"
		if v.paused {
			mode = "paused (space resumes)"
		}
		lines = append(lines, mode)
	case game.StatusEnded:
		lines = append(lines,
			fmt.Sprintf("winner: %s", b.Winner),
			"r restart  c copy report")
	}
	if v.notice != "" {
		lines = append(lines, "", v.notice)
	}
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, 12, marginY+i*16)
	}
}
