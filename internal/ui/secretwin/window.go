package secretwin

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"quickcalc/internal/core/secret"
)

// Config defines secret window visuals.
type Config struct {
	Title   string
	Message string
	Opacity uint8
}

// Window is the hidden panel opened by the secret gestures.
type Window struct {
	window     fyne.Window
	config     Config
	background *canvas.Rectangle
	title      *canvas.Text
	message    *canvas.Text
	hint       *canvas.Text
	close      *widget.Button
	visible    bool
}

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// DefaultConfig returns the stock secret window text.
func DefaultConfig() Config {
	return Config{
		Title:   "You found it!",
		Message: "This calculator has a secret side.",
		Opacity: 230,
	}
}

// New creates the secret window without showing it.
func New(app fyne.App, config Config) *Window {
	window := app.NewWindow(config.Title)
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		window = driver.CreateSplashWindow()
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{R: 24, G: 18, B: 48, A: config.Opacity})

	title := canvas.NewText(config.Title, color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	title.Alignment = fyne.TextAlignCenter
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 22

	message := canvas.NewText(config.Message, color.White)
	message.Alignment = fyne.TextAlignCenter
	message.TextSize = 15

	hint := canvas.NewText("", color.NRGBA{R: 180, G: 180, B: 200, A: 255})
	hint.Alignment = fyne.TextAlignCenter
	hint.TextSize = 12

	secretWindow := &Window{
		window:     window,
		config:     config,
		background: background,
		title:      title,
		message:    message,
		hint:       hint,
	}
	secretWindow.close = widget.NewButton("Close", secretWindow.Hide)

	content := container.NewPadded(container.NewVBox(title, message, hint, secretWindow.close))
	window.SetContent(container.NewStack(background, content))
	window.Resize(fyne.NewSize(340, 180))
	window.SetCloseIntercept(secretWindow.Hide)

	return secretWindow
}

// Show opens the window and notes which gesture found it.
func (secretWindow *Window) Show(source secret.Source) {
	secretWindow.hint.Text = hintFor(source)
	secretWindow.hint.Refresh()
	secretWindow.visible = true
	secretWindow.window.CenterOnScreen()
	secretWindow.window.Show()
	secretWindow.window.RequestFocus()
}

// Hide closes the window.
func (secretWindow *Window) Hide() {
	secretWindow.visible = false
	secretWindow.window.Hide()
}

// Visible reports whether the window is open.
func (secretWindow *Window) Visible() bool {
	return secretWindow.visible
}

func hintFor(source secret.Source) string {
	switch source {
	case secret.SourceHold:
		return "Patience pays: you held \"=\"."
	case secret.SourceSequence:
		return "You typed the magic digits."
	default:
		return ""
	}
}
