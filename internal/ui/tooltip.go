package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// toolbarButton creates a flat icon button whose label only shows on hover.
// Tooltips render in the layer added by fynetooltip.AddWindowToolTipLayer.
func toolbarButton(icon fyne.Resource, tip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.Importance = widget.LowImportance
	btn.SetToolTip(tip)
	return btn
}
