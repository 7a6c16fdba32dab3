package domain

// DeviceClass selects the radius, distance and label constants
type DeviceClass string

const (
	DeviceDesktop DeviceClass = "desktop"
	DeviceMobile  DeviceClass = "mobile"
)

// DeviceFromMobile maps the host's isMobile signal to a device class
func DeviceFromMobile(isMobile bool) DeviceClass {
	if isMobile {
		return DeviceMobile
	}
	return DeviceDesktop
}

// IsMobile reports whether the class is mobile
func (d DeviceClass) IsMobile() bool {
	return d == DeviceMobile
}

// Selection is owned by the selection state machine. Empty IDs mean
// nothing is active or hovered.
type Selection struct {
	ActiveThemeID string `json:"active_theme_id,omitempty"`
	HoveredID     string `json:"hovered_id,omitempty"`
}

// HasActive returns true when a theme is active
func (s Selection) HasActive() bool {
	return s.ActiveThemeID != ""
}
