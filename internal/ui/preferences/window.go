package preferences

import (
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	secretEnabled *widget.Check
	secretCode    *widget.Entry
	holdSeconds   *widget.Entry
	decimalOp     *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("QuickCalc Settings")

	secretEnabled := widget.NewCheck("Enable secret window", nil)
	secretCode := widget.NewEntry()
	secretCode.SetPlaceHolder("digits")
	holdSeconds := widget.NewEntry()
	decimalOp := widget.NewCheck("Treat \".\" as an operator", nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Secret window", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		secretEnabled,
		container.NewHBox(widget.NewLabel("Digit code"), secretCode),
		container.NewHBox(widget.NewLabel("Hold \"=\" for"), holdSeconds, widget.NewLabel("sec")),
		widget.NewLabelWithStyle("Input", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		decimalOp,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(360, 260))

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		secretEnabled: secretEnabled,
		secretCode:    secretCode,
		holdSeconds:   holdSeconds,
		decimalOp:     decimalOp,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.secretEnabled.SetChecked(settings.SecretEnabled)
	prefs.secretCode.SetText(settings.SecretCode)
	prefs.holdSeconds.SetText(strconv.Itoa(int(settings.HoldDuration / time.Second)))
	prefs.decimalOp.SetChecked(settings.DecimalIsOperator)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings
	settings.SecretEnabled = prefs.secretEnabled.Checked
	settings.SecretCode = prefs.secretCode.Text
	if seconds, ok := parsePositiveInt(prefs.holdSeconds.Text); ok {
		settings.HoldDuration = time.Duration(seconds) * time.Second
	}
	settings.DecimalIsOperator = prefs.decimalOp.Checked

	settings = settings.Normalized()
	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
