package profile

import "github.com/AnyUserName/rawpng-cli/internal/rawpng"

// Profile defines which variants a batch build produces per source image.
type Profile struct {
	Name    string
	Widths  []int    // target widths; empty means original size only
	Formats []string // encoder formats, see encoder.Registry
	Alpha   rawpng.AlphaMode
	Retina  bool // also emit 2x variants
}

// Built-in profiles.
var profiles = map[string]Profile{
	"original": {
		Name:    "original",
		Formats: []string{"stored"},
		Alpha:   rawpng.AlphaAuto,
	},
	"thumbnails": {
		Name:    "thumbnails",
		Widths:  []int{64, 128, 256},
		Formats: []string{"stored"},
		Alpha:   rawpng.AlphaAuto,
		Retina:  true,
	},
	"web": {
		Name:    "web",
		Widths:  []int{320, 640, 1280},
		Formats: []string{"stored"},
		Alpha:   rawpng.AlphaAuto,
	},
}

// Names returns the built-in profile names in a stable order.
func Names() []string {
	return []string{"original", "thumbnails", "web"}
}

// Get returns a profile by name. Falls back to original if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		p.Widths = append([]int(nil), p.Widths...)
		p.Formats = append([]string(nil), p.Formats...)
		return p
	}
	p := profiles["original"]
	p.Formats = append([]string(nil), p.Formats...)
	p.Name = name // preserve requested name
	return p
}

// EffectiveWidths returns all widths including retina variants.
func (p Profile) EffectiveWidths(originalWidth int) []int {
	seen := map[int]bool{}
	var result []int

	for _, w := range p.Widths {
		if w > originalWidth {
			continue // don't upscale
		}
		if !seen[w] {
			seen[w] = true
			result = append(result, w)
		}
		if p.Retina {
			w2 := w * 2
			if w2 <= originalWidth && !seen[w2] {
				seen[w2] = true
				result = append(result, w2)
			}
		}
	}

	// Original size when no target fits (or none was asked for).
	if len(result) == 0 && originalWidth > 0 {
		result = append(result, originalWidth)
	}

	return result
}
