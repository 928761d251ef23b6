package keypad

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// typedTokens are the runes accepted from the keyboard as button presses.
const typedTokens = "0123456789+-*/.()"

// Controller receives the calculator actions.
type Controller interface {
	Append(token string)
	Evaluate()
	Clear()
	StartHold()
	StopHold()
}

// Config defines keypad window behaviour.
type Config struct {
	Title string
	// HideOnClose hides the window instead of quitting, for tray setups.
	HideOnClose bool
	// OnPreferences adds a settings entry to the window menu when set.
	OnPreferences func()
}

// Window manages the calculator UI.
type Window struct {
	window     fyne.Window
	controller Controller
	expression *widget.Label
	result     *widget.Label
	buttons    map[string]*widget.Button
	equals     *holdButton
}

var keyRows = [][]string{
	{"C", "(", ")", "/"},
	{"7", "8", "9", "*"},
	{"4", "5", "6", "-"},
	{"1", "2", "3", "+"},
}

// New creates the calculator window.
func New(app fyne.App, config Config, controller Controller) *Window {
	if config.Title == "" {
		config.Title = "QuickCalc"
	}
	window := app.NewWindow(config.Title)

	expression := widget.NewLabel("")
	expression.Alignment = fyne.TextAlignTrailing
	expression.Truncation = fyne.TextTruncateClip

	result := widget.NewLabelWithStyle("", fyne.TextAlignTrailing, fyne.TextStyle{Monospace: true})

	keypad := &Window{
		window:     window,
		controller: controller,
		expression: expression,
		result:     result,
		buttons:    make(map[string]*widget.Button),
	}

	grid := container.NewGridWithColumns(4)
	for _, row := range keyRows {
		for _, label := range row {
			grid.Add(keypad.newKey(label))
		}
	}

	keypad.equals = newHoldButton("=", controller.Evaluate, controller.StartHold, controller.StopHold)
	keypad.equals.Importance = widget.HighImportance
	lastRow := container.NewGridWithColumns(3, keypad.newKey("0"), keypad.newKey("."), keypad.equals)

	display := container.NewVBox(expression, result)
	window.SetContent(container.NewBorder(display, lastRow, nil, nil, grid))
	window.Resize(fyne.NewSize(280, 360))

	window.Canvas().SetOnTypedRune(keypad.handleRune)
	window.Canvas().SetOnTypedKey(keypad.handleKey)
	if config.HideOnClose {
		window.SetCloseIntercept(window.Hide)
	}
	if config.OnPreferences != nil {
		window.SetMainMenu(fyne.NewMainMenu(
			fyne.NewMenu(config.Title, fyne.NewMenuItem("Preferences", config.OnPreferences)),
		))
	}

	return keypad
}

// Show displays and focuses the calculator.
func (keypad *Window) Show() {
	keypad.window.Show()
	keypad.window.RequestFocus()
}

// ShowAndRun displays the calculator and runs the app loop.
func (keypad *Window) ShowAndRun() {
	keypad.window.ShowAndRun()
}

// SetExpression updates the expression line. Call from the UI goroutine.
func (keypad *Window) SetExpression(expression string) {
	keypad.expression.SetText(expression)
}

// SetResult updates the result line. Call from the UI goroutine.
func (keypad *Window) SetResult(result string) {
	keypad.result.SetText(result)
}

func (keypad *Window) newKey(label string) *widget.Button {
	var button *widget.Button
	if label == "C" {
		button = widget.NewButton(label, keypad.controller.Clear)
		button.Importance = widget.DangerImportance
	} else {
		button = widget.NewButton(label, func() {
			keypad.controller.Append(label)
		})
	}
	keypad.buttons[label] = button
	return button
}

func (keypad *Window) handleRune(r rune) {
	switch {
	case r == '=':
		keypad.controller.Evaluate()
	case strings.ContainsRune(typedTokens, r):
		keypad.controller.Append(string(r))
	}
}

func (keypad *Window) handleKey(event *fyne.KeyEvent) {
	switch event.Name {
	case fyne.KeyReturn, fyne.KeyEnter:
		keypad.controller.Evaluate()
	case fyne.KeyEscape:
		keypad.controller.Clear()
	}
}
