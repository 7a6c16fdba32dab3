package layout

import "orbitview/internal/domain"

// LabelClass is the size bucket for a node label
type LabelClass string

const (
	LabelRegular LabelClass = "regular"
	LabelMedium  LabelClass = "medium"
	LabelCompact LabelClass = "compact" // more than 8 children
)

const (
	compactAbove = 8
	mediumAbove  = 4
)

// LabelStyle is the label sizing chosen for a node
type LabelStyle struct {
	Class    LabelClass `json:"class"`
	FontSize float64    `json:"font_size"`
}

// LabelSize picks the label size for a theme from its child count.
// Dense themes get smaller labels so their children stay readable.
func LabelSize(device domain.DeviceClass, childCount int) LabelStyle {
	if device.IsMobile() {
		switch {
		case childCount > compactAbove:
			return LabelStyle{Class: LabelCompact, FontSize: 0.18}
		case childCount > mediumAbove:
			return LabelStyle{Class: LabelMedium, FontSize: 0.22}
		default:
			return LabelStyle{Class: LabelRegular, FontSize: 0.26}
		}
	}
	if childCount > compactAbove {
		return LabelStyle{Class: LabelCompact, FontSize: 0.26}
	}
	return LabelStyle{Class: LabelRegular, FontSize: 0.3}
}
