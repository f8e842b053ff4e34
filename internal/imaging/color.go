package imaging

// ColorLabel names the dominant color of an inspection region.
type ColorLabel int

// Color labels, in no particular order.
const (
	Unknown ColorLabel = iota
	Red
	Yellow
	Green
	Blue
	Gray
	Black
)

func (l ColorLabel) String() string {
	switch l {
	case Red:
		return "Red"
	case Yellow:
		return "Yellow"
	case Green:
		return "Green"
	case Blue:
		return "Blue"
	case Gray:
		return "Gray"
	case Black:
		return "Black"
	default:
		return "Unknown"
	}
}

// MarshalText renders the label by name in JSON output.
func (l ColorLabel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ColorRule maps a predicate on an HSV descriptor to a label.
type ColorRule struct {
	Label ColorLabel
	Match func(c HSV) bool
}

// hueIn matches lo < h <= hi, or lo <= h <= hi when loInclusive is set.
func hueIn(lo, hi int, loInclusive bool) func(HSV) bool {
	return func(c HSV) bool {
		h := int(c.H)
		if loInclusive {
			return h >= lo && h <= hi
		}
		return h > lo && h <= hi
	}
}

// ColorRules is the ordered rule table used by ClassifyColor. The first rule
// that matches wins.
//
// The upper red band ends at HueMax: hue never exceeds the 8-bit scale, so a
// wider bound would be unreachable.
var ColorRules = []ColorRule{
	{Label: Gray, Match: func(c HSV) bool { return int(c.S) < 40 }},
	{Label: Black, Match: func(c HSV) bool { return int(c.V) < 40 }},
	{Label: Red, Match: hueIn(0, 25, true)},
	{Label: Yellow, Match: hueIn(25, 55, false)},
	{Label: Green, Match: hueIn(55, 85, false)},
	{Label: Blue, Match: hueIn(85, 150, false)},
	{Label: Red, Match: hueIn(150, HueMax, false)},
}

// ClassifyColor names the color described by c.
//
// Components are truncated to integers before matching, so a mean hue of 25.7
// falls in the lower red band. Descriptors matched by no rule (for example a
// hue outside [0, 180]) are Unknown.
func ClassifyColor(c HSV) ColorLabel {
	return ClassifyWith(ColorRules, c)
}

// ClassifyWith applies a custom rule table.
func ClassifyWith(rules []ColorRule, c HSV) ColorLabel {
	for _, r := range rules {
		if r.Match(c) {
			return r.Label
		}
	}
	return Unknown
}
