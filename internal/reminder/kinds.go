package reminder

import "fmt"

// Title is shown on every reminder notification.
const Title = "DAT Study Tracker"

// Kind selects one of the fixed reminder messages.
type Kind int

const (
	KindStrong Kind = iota
	KindBreathe
	KindRelax
	KindWater
)

// Kinds lists every reminder kind.
var Kinds = []Kind{KindStrong, KindBreathe, KindRelax, KindWater}

func (k Kind) String() string {
	switch k {
	case KindStrong:
		return "strong"
	case KindBreathe:
		return "breathe"
	case KindRelax:
		return "relax"
	case KindWater:
		return "water"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Label is the short name shown next to a kind in the settings screen.
func (k Kind) Label() string {
	switch k {
	case KindStrong:
		return "Stay strong"
	case KindBreathe:
		return "Breathe"
	case KindRelax:
		return "Relax"
	case KindWater:
		return "Drink water"
	}
	return ""
}

// Message is the notification body for k.
func (k Kind) Message() string {
	switch k {
	case KindStrong:
		return "You've got this. Stay strong."
	case KindBreathe:
		return "Take a moment to breathe."
	case KindRelax:
		return "Time to relax for a minute."
	case KindWater:
		return "Remember to drink some water."
	}
	return ""
}

// ParseKind maps "strong", "breathe", "relax" or "water" to its Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown reminder kind %q", name)
}
