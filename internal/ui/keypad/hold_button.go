package keypad

import (
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// holdButton is a button that also reports press and release, so the
// caller can time how long it is held.
type holdButton struct {
	widget.Button
	onPress   func()
	onRelease func()
}

var (
	_ desktop.Mouseable = (*holdButton)(nil)
	_ mobile.Touchable  = (*holdButton)(nil)
)

func newHoldButton(label string, tapped, press, release func()) *holdButton {
	button := &holdButton{onPress: press, onRelease: release}
	button.Text = label
	button.OnTapped = tapped
	button.ExtendBaseWidget(button)
	return button
}

func (button *holdButton) MouseDown(*desktop.MouseEvent) {
	button.press()
}

func (button *holdButton) MouseUp(*desktop.MouseEvent) {
	button.release()
}

func (button *holdButton) TouchDown(*mobile.TouchEvent) {
	button.press()
}

func (button *holdButton) TouchUp(*mobile.TouchEvent) {
	button.release()
}

func (button *holdButton) TouchCancel(*mobile.TouchEvent) {
	button.release()
}

func (button *holdButton) press() {
	if button.Disabled() || button.onPress == nil {
		return
	}
	button.onPress()
}

func (button *holdButton) release() {
	if button.onRelease != nil {
		button.onRelease()
	}
}
