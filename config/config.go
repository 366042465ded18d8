// Package config reads the surface description: hardware layout, layers,
// modes and settings.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/JeanRibes/ohm-surface/control"
	"github.com/JeanRibes/ohm-surface/modes"

	"gopkg.in/yaml.v3"
)

//go:embed ohmrgb.yaml
var defaultConfig []byte

var (
	ErrInvalid = errors.New("invalid config")
)

type MessageType string

const (
	Note MessageType = "note"
	CC   MessageType = "cc"
)

// Control describes one hardware control, or Count numbered ones: id0,
// id1... on consecutive note / cc numbers.
type Control struct {
	ID      string       `yaml:"id"`
	Kind    control.Kind `yaml:"kind"`
	Channel uint8        `yaml:"channel"`
	Type    MessageType  `yaml:"type"`
	Number  uint8        `yaml:"number"`
	Count   int          `yaml:"count,omitempty"`
}

type Layer struct {
	Name      string   `yaml:"name"`
	Component string   `yaml:"component"`
	Bindings  Bindings `yaml:"bindings"`
}

type Mode struct {
	Name     string  `yaml:"name"`
	Priority int     `yaml:"priority"`
	Layers   []Layer `yaml:"layers"`
}

type Selector struct {
	Modes     []string `yaml:"modes"`
	Exclusive bool     `yaml:"exclusive"`
}

type Settings struct {
	// SendIndex is unset when null.
	SendIndex   *int     `yaml:"send_index"`
	Tracks      int      `yaml:"tracks"`
	Scenes      int      `yaml:"scenes"`
	DeviceBanks int      `yaml:"device_banks"`
	Tempo       float64  `yaml:"tempo"`
	Numerator   int      `yaml:"numerator"`
	Selector    Selector `yaml:"selector"`
}

type MIDI struct {
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Virtual string `yaml:"virtual"`
}

// Serial describes a DIY controller on a serial port. Keymap maps the key
// codes it sends to control ids.
type Serial struct {
	Port     string         `yaml:"port"`
	BaudRate int            `yaml:"baud_rate"`
	Keymap   map[int]string `yaml:"keymap"`
}

type Config struct {
	Name     string    `yaml:"name"`
	MIDI     MIDI      `yaml:"midi"`
	Serial   Serial    `yaml:"serial"`
	Controls []Control `yaml:"controls"`
	Base     []Layer   `yaml:"base"`
	Modes    []Mode    `yaml:"modes"`
	Settings Settings  `yaml:"settings"`
}

// Default returns the built-in OhmRGB description.
func Default() *Config {
	cfg, err := Parse(defaultConfig)
	if err != nil {
		panic(fmt.Sprintf("embedded config: %v", err))
	}
	return cfg
}

func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := &Config{
		Settings: Settings{Tracks: 8, Scenes: 8, DeviceBanks: 1, Tempo: 120, Numerator: 4},
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Layout expands the control declarations in declaration order.
func (c *Config) Layout() []Control {
	var res []Control
	for _, ctl := range c.Controls {
		if ctl.Count <= 0 {
			res = append(res, ctl)
			continue
		}
		for i := 0; i < ctl.Count; i++ {
			one := ctl
			one.ID = ctl.ID + strconv.Itoa(i)
			one.Number = ctl.Number + uint8(i)
			one.Count = 0
			res = append(res, one)
		}
	}
	return res
}

// Validate checks the parts of the config the YAML decoder cannot: unique
// ids, message types, number ranges and layer shapes. Control references
// are checked by the mode stack.
func (c *Config) Validate() error {
	var errs error
	seen := map[string]bool{}
	addr := map[string]string{}
	for _, ctl := range c.Controls {
		if ctl.ID == "" {
			errs = errors.Join(errs, fmt.Errorf("%w: control without id", ErrInvalid))
		}
		if ctl.Type != Note && ctl.Type != CC {
			errs = errors.Join(errs, fmt.Errorf("%w: control %s: message type %q", ErrInvalid, ctl.ID, ctl.Type))
		}
		if ctl.Channel > 15 {
			errs = errors.Join(errs, fmt.Errorf("%w: control %s: channel %d", ErrInvalid, ctl.ID, ctl.Channel))
		}
		if int(ctl.Number)+max(ctl.Count, 1)-1 > 127 {
			errs = errors.Join(errs, fmt.Errorf("%w: control %s: number %d overflows", ErrInvalid, ctl.ID, ctl.Number))
		}
	}
	if errs != nil {
		return errs
	}
	for _, ctl := range c.Layout() {
		if seen[ctl.ID] {
			errs = errors.Join(errs, fmt.Errorf("%w: duplicate control %s", ErrInvalid, ctl.ID))
		}
		seen[ctl.ID] = true
		key := fmt.Sprintf("%d/%s/%d", ctl.Channel, ctl.Type, ctl.Number)
		if other, ok := addr[key]; ok {
			errs = errors.Join(errs, fmt.Errorf("%w: %s and %s share %s", ErrInvalid, other, ctl.ID, key))
		}
		addr[key] = ctl.ID
	}
	layers := append([]Layer(nil), c.Base...)
	for _, m := range c.Modes {
		if m.Name == "" {
			errs = errors.Join(errs, fmt.Errorf("%w: mode without name", ErrInvalid))
		}
		layers = append(layers, m.Layers...)
	}
	for _, l := range layers {
		if l.Name == "" || l.Component == "" {
			errs = errors.Join(errs, fmt.Errorf("%w: layer %q needs a name and a component", ErrInvalid, l.Name))
		}
	}
	s := c.Settings
	if s.Tracks <= 0 || s.Scenes <= 0 {
		errs = errors.Join(errs, fmt.Errorf("%w: ring %dx%d", ErrInvalid, s.Tracks, s.Scenes))
	}
	return errs
}

// Registry builds the control registry of the layout.
func (c *Config) Registry(sink control.FeedbackSink) (*control.Registry, error) {
	reg := control.NewRegistry(sink)
	for _, ctl := range c.Layout() {
		if _, err := reg.Add(control.ID(ctl.ID), ctl.Kind); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Build turns a layer description into a mode stack layer. The priority is
// set by the stack.
func (l Layer) Build() *modes.Layer {
	return modes.NewLayer(l.Name, l.Component, 0, l.Bindings...)
}

// Bindings keeps the role order of a YAML mapping. Each role lists control
// ids; "pad[0:8]" stands for pad0 to pad7.
type Bindings []modes.Binding

func (b *Bindings) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: bindings must be a mapping", node.Line)
	}
	res := Bindings{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		role := node.Content[i].Value
		var items []string
		switch v := node.Content[i+1]; v.Kind {
		case yaml.ScalarNode:
			items = []string{v.Value}
		case yaml.SequenceNode:
			if err := v.Decode(&items); err != nil {
				return err
			}
		default:
			return fmt.Errorf("line %d: role %s: expected a control or a list", v.Line, role)
		}
		var ids []control.ID
		for _, item := range items {
			expanded, err := expand(item)
			if err != nil {
				return fmt.Errorf("line %d: role %s: %w", node.Content[i+1].Line, role, err)
			}
			ids = append(ids, expanded...)
		}
		res = append(res, modes.Bind(role, ids...))
	}
	*b = res
	return nil
}

func (b Bindings) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, binding := range b {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, id := range binding.Controls {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: string(id)})
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: binding.Role}, seq)
	}
	return node, nil
}

// expand resolves the "name[from:to]" range shorthand.
func expand(item string) ([]control.ID, error) {
	open := strings.IndexByte(item, '[')
	if open < 0 || !strings.HasSuffix(item, "]") {
		return []control.ID{control.ID(item)}, nil
	}
	prefix := item[:open]
	from, to, ok := strings.Cut(item[open+1:len(item)-1], ":")
	if !ok {
		return nil, fmt.Errorf("bad range %q", item)
	}
	a, err := strconv.Atoi(from)
	if err != nil {
		return nil, fmt.Errorf("bad range %q: %w", item, err)
	}
	z, err := strconv.Atoi(to)
	if err != nil {
		return nil, fmt.Errorf("bad range %q: %w", item, err)
	}
	if a < 0 || z < a {
		return nil, fmt.Errorf("bad range %q", item)
	}
	ids := make([]control.ID, 0, z-a)
	for i := a; i < z; i++ {
		ids = append(ids, control.ID(prefix+strconv.Itoa(i)))
	}
	return ids, nil
}
