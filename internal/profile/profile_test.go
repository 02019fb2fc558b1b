package profile

import (
	"reflect"
	"testing"
)

func TestEffectiveWidths(t *testing.T) {
	cases := []struct {
		name    string
		profile Profile
		orig    int
		want    []int
	}{
		{"original_only", Get("original"), 800, []int{800}},
		{"thumbnails_with_retina", Get("thumbnails"), 300, []int{64, 128, 256}},
		{"thumbnails_large", Get("thumbnails"), 1000, []int{64, 128, 256, 512}},
		{"no_upscale", Get("web"), 500, []int{320}},
		{"too_small_for_any", Get("web"), 100, []int{100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.profile.EffectiveWidths(tc.orig)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("EffectiveWidths(%d) = %v, want %v", tc.orig, got, tc.want)
			}
		})
	}
}

func TestGet_UnknownFallsBack(t *testing.T) {
	p := Get("nope")
	if p.Name != "nope" {
		t.Errorf("name: got %q", p.Name)
	}
	if len(p.Widths) != 0 || len(p.Formats) == 0 {
		t.Errorf("unexpected fallback profile: %+v", p)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	p := Get("web")
	p.Widths[0] = 1
	if Get("web").Widths[0] != 320 {
		t.Error("mutating a returned profile changed the built-in")
	}
}
