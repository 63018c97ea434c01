package navigation

import "strings"

// Icon identifies a sidebar glyph. The set is closed; unknown names map to IconDefault.
type Icon int

const (
	IconDefault Icon = iota
	IconDashboard
	IconMap
	IconStar
	IconCrosshair
	IconList
	IconTarget
	IconInbox
	IconNetwork
	IconRadar
	IconDatabase
	IconFile
	IconCalendar
	IconUser
	IconUsers
	IconShield
	IconClipboard
)

var iconNames = [...]string{
	IconDefault:   "circle",
	IconDashboard: "layout-dashboard",
	IconMap:       "map",
	IconStar:      "star",
	IconCrosshair: "crosshair",
	IconList:      "list",
	IconTarget:    "target",
	IconInbox:     "inbox",
	IconNetwork:   "network",
	IconRadar:     "radar",
	IconDatabase:  "database",
	IconFile:      "file-text",
	IconCalendar:  "calendar",
	IconUser:      "user",
	IconUsers:     "users",
	IconShield:    "shield",
	IconClipboard: "clipboard-list",
}

var iconByName = func() map[string]Icon {
	m := make(map[string]Icon, len(iconNames))
	for i, name := range iconNames {
		m[name] = Icon(i)
	}
	return m
}()

// ParseIcon looks up an icon by name. Unknown or empty names yield IconDefault.
func ParseIcon(name string) Icon {
	if icon, ok := iconByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return icon
	}
	return IconDefault
}

func (i Icon) String() string {
	if i < 0 || int(i) >= len(iconNames) {
		return iconNames[IconDefault]
	}
	return iconNames[i]
}

// MarshalText renders the icon by name.
func (i Icon) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText parses an icon name, falling back to IconDefault.
func (i *Icon) UnmarshalText(text []byte) error {
	*i = ParseIcon(string(text))
	return nil
}
