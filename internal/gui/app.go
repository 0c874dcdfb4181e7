// Package gui hosts the ball in a resizable raylib window: a magenta ball
// on a yellow field. Arrow keys or a held left mouse button tilt the
// field; every window resize reports a new viewport to the integrator.
package gui

import (
	"context"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/tiltball/internal/ball"
	"github.com/san-kum/tiltball/internal/engine"
	"github.com/san-kum/tiltball/internal/logging"
	"github.com/san-kum/tiltball/internal/sensor"
	"go.uber.org/zap"
)

const (
	keyTilt  = 6.0
	maxTilt  = 12.0
	fontSize = 20
)

var (
	colField = rl.Yellow
	colBall  = rl.Magenta
	colText  = rl.NewColor(60, 60, 60, 255)
)

type Options struct {
	Session *engine.Session
	Width   int
	Height  int
	FPS     int
	Log     *zap.Logger
}

type App struct {
	session *engine.Session
	manual  *sensor.Manual
	log     *zap.Logger

	bounds  ball.Bounds
	frame   engine.Frame
	bounces int
}

// initWindow opens a resizable window of the given size.
func initWindow(w, h, fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(w), int32(h), "tiltball")
	rl.SetTargetFPS(int32(fps))
}

func NewApp(o Options) *App {
	return &App{
		session: o.Session,
		manual:  sensor.NewManual(sensor.WallClock),
		log:     logging.OrNop(o.Log),
	}
}

// Run opens the window and blocks until it is closed.
func Run(o Options) error {
	if o.FPS <= 0 {
		o.FPS = 60
	}
	initWindow(o.Width, o.Height, o.FPS)
	defer rl.CloseWindow()

	app := NewApp(o)
	app.resize()
	return app.RunLoop()
}

func (a *App) RunLoop() error {
	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			a.resize()
		}
		if err := a.Update(); err != nil {
			return err
		}
		a.Draw()
	}
	return nil
}

func (a *App) resize() {
	a.bounds = ball.Bounds{
		Width:  float64(rl.GetScreenWidth()),
		Height: float64(rl.GetScreenHeight()),
	}
	a.session.Resize(a.bounds.Width, a.bounds.Height)
	a.frame.Position = a.bounds.Center()
	a.log.Debug("window resized", zap.Float64("width", a.bounds.Width), zap.Float64("height", a.bounds.Height))
}

// Update reads the input as a tilt and applies one sample.
func (a *App) Update() error {
	ax, ay := 0.0, 0.0
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		m := rl.GetMousePosition()
		ax, ay = sensor.TiltFromPointer(float64(m.X), float64(m.Y), a.bounds.Width, a.bounds.Height, maxTilt)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		ax -= keyTilt
	}
	if rl.IsKeyDown(rl.KeyRight) {
		ax += keyTilt
	}
	if rl.IsKeyDown(rl.KeyUp) {
		ay -= keyTilt
	}
	if rl.IsKeyDown(rl.KeyDown) {
		ay += keyTilt
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.resize()
	}
	a.manual.SetTilt(ax, ay)

	if !a.session.Params().FitsIn(a.bounds) {
		return nil
	}
	raw, err := a.manual.Next(context.Background())
	if err != nil {
		return err
	}
	a.frame = a.session.Apply(sensor.Orient(raw))
	a.bounces += a.frame.Collision.Count()
	return nil
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colField)

	p := a.frame.Position
	if p.IsFinite() {
		rl.DrawCircle(int32(p.X), int32(p.Y), float32(a.session.Params().Radius), colBall)
	}

	status := fmt.Sprintf("tilt %s  bounces %d  (arrows / drag to tilt, R recentre)", a.frame.Accel, a.bounces)
	rl.DrawText(status, 10, 10, fontSize, colText)
	rl.EndDrawing()
}
