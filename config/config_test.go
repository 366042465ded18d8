package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JeanRibes/ohm-surface/control"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	layout := cfg.Layout()
	if len(layout) != 137 {
		t.Fatalf("layout has %d controls", len(layout))
	}
	first := layout[0]
	if first.ID != "fader0" || first.Kind != control.Fader || first.Type != CC || first.Number != 0 {
		t.Errorf("first control = %+v", first)
	}
	pad := layout[25+10]
	if pad.ID != "pad10" || pad.Type != Note || pad.Number != 10 {
		t.Errorf("pad10 = %+v", pad)
	}
	if cfg.Settings.SendIndex != nil {
		t.Errorf("send index = %d", *cfg.Settings.SendIndex)
	}
	if cfg.Settings.Tracks != 8 || !cfg.Settings.Selector.Exclusive {
		t.Errorf("settings = %+v", cfg.Settings)
	}

	mixer := cfg.Base[0]
	var roles []string
	for _, b := range mixer.Bindings {
		roles = append(roles, b.Role)
	}
	want := "volume_sliders pan_encoders send_encoders select_buttons mute_buttons solo_buttons arm_buttons"
	if got := strings.Join(roles, " "); got != want {
		t.Errorf("roles = %s", got)
	}
	if got := mixer.Bindings[2].Controls; len(got) != 4 || got[3] != "send3" {
		t.Errorf("send_encoders = %v", got)
	}

	reg, err := cfg.Registry(nil)
	if err != nil {
		t.Fatal(err)
	}
	if reg.Len() != len(layout) {
		t.Errorf("registry has %d controls", reg.Len())
	}
}

func TestParseSettings(t *testing.T) {
	cfg, err := Parse([]byte(`
controls:
  - {id: a, kind: knob, type: cc, number: 1}
settings:
  send_index: 2
  tempo: 98.5
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Settings.SendIndex == nil || *cfg.Settings.SendIndex != 2 {
		t.Errorf("send index = %v", cfg.Settings.SendIndex)
	}
	if cfg.Settings.Tempo != 98.5 || cfg.Settings.Tracks != 8 || cfg.Settings.Numerator != 4 {
		t.Errorf("settings = %+v", cfg.Settings)
	}
	if cfg.Controls[0].Kind != control.Rotary {
		t.Errorf("kind = %v", cfg.Controls[0].Kind)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"message type", `controls: [{id: a, kind: button, type: sysex, number: 1}]`},
		{"duplicate id", `controls: [{id: a, kind: button, type: note, number: 1}, {id: a, kind: button, type: note, number: 2}]`},
		{"shared address", `controls: [{id: a, kind: button, type: note, number: 1}, {id: b, kind: button, type: note, number: 1}]`},
		{"overflow", `controls: [{id: p, count: 10, kind: button, type: note, number: 120}]`},
		{"channel", `controls: [{id: a, kind: button, type: note, channel: 16, number: 1}]`},
		{"layer", `base: [{component: mixer}]`},
		{"ring", `settings: {tracks: 0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
		})
	}

	if _, err := Parse([]byte(`controls: [{id: a, kind: lever, type: cc}]`)); err == nil {
		t.Error("unknown kind accepted")
	}
	if _, err := Parse([]byte("base:\n  - name: x\n    component: y\n    bindings:\n      pads: \"p[3:1]\"\n")); err == nil {
		t.Error("reversed range accepted")
	}
}

func TestExpand(t *testing.T) {
	ids, err := expand("pad[2:5]")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 || ids[0] != "pad2" || ids[2] != "pad4" {
		t.Errorf("ids = %v", ids)
	}
	ids, _ = expand("play")
	if len(ids) != 1 || ids[0] != "play" {
		t.Errorf("ids = %v", ids)
	}
	if _, err := expand("pad[a:2]"); err == nil {
		t.Error("bad range accepted")
	}
}

func TestLoad(t *testing.T) {
	name := filepath.Join(t.TempDir(), "surface.yaml")
	if err := os.WriteFile(name, []byte("controls: [{id: a, kind: button, type: note, number: 1}]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(name)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Layout()) != 1 {
		t.Errorf("layout = %v", cfg.Layout())
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v", err)
	}
}
