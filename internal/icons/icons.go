// Package icons defines the closed set of symbolic icon names shared by the
// data model and clients. Rendering an icon name to a glyph is entirely a
// presentation concern; the core only stores and validates the names.
package icons

// Default is substituted for any unrecognized icon name.
const Default = "ClipboardList"

var known = map[string]struct{}{}

// All lists every valid icon name, in a stable order suitable for pickers.
var all = []string{
	"Apple",
	"Baby",
	"Beer",
	"Cake",
	"Calendar",
	"Camera",
	"Car",
	"ClipboardList",
	"Coffee",
	"Cookie",
	"CupSoda",
	"Drumstick",
	"Flame",
	"Gamepad",
	"Gift",
	"Guitar",
	"Hammer",
	"Heart",
	"IceCream",
	"Megaphone",
	"Music",
	"Package",
	"Palette",
	"PartyPopper",
	"Pizza",
	"Salad",
	"Sandwich",
	"Soup",
	"Sparkles",
	"Star",
	"Sun",
	"Tent",
	"Trash",
	"Trophy",
	"Truck",
	"Umbrella",
	"Users",
	"Utensils",
	"Wine",
	"Wrench",
}

func init() {
	for _, name := range all {
		known[name] = struct{}{}
	}
}

// Valid reports whether name belongs to the icon set.
func Valid(name string) bool {
	_, ok := known[name]
	return ok
}

// Normalize returns name if it is a known icon, otherwise Default.
func Normalize(name string) string {
	if Valid(name) {
		return name
	}
	return Default
}

// All returns the full icon set.
func All() []string {
	out := make([]string, len(all))
	copy(out, all)
	return out
}
