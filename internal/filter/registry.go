package filter

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Effect is what the registry hands out for a key. Preview and Capture come
// from the same CSS string, so the live view matches the baked still.
type Effect struct {
	Key     string
	Preview string
	Capture Descriptor
}

// Preset is a named filter in CSS form.
type Preset struct {
	Key string
	CSS string
}

// Defaults are the presets every registry starts with.
var Defaults = []Preset{
	{"none", "none"},
	{"sepia", "sepia(100%)"},
	{"grayscale", "grayscale(100%)"},
	{"blur", "blur(3px)"},
	{"vivid", "saturate(200%)"},
	{"psychedelic", "hue-rotate(90deg) saturate(200%)"},
	{"bright", "brightness(120%) contrast(110%)"},
	{"invert", "invert(100%)"},
}

// Registry maps filter keys to effects. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	effects map[string]Effect
}

// NewRegistry returns a registry holding the default presets.
func NewRegistry() *Registry {
	r := &Registry{effects: make(map[string]Effect, len(Defaults))}
	for _, p := range Defaults {
		r.effects[p.Key] = Effect{Key: p.Key, Preview: p.CSS, Capture: MustParse(p.CSS)}
	}
	return r
}

// Register adds or replaces a preset.
func (r *Registry) Register(key, css string) error {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "data:") {
		return fmt.Errorf("%w: bad key %q", ErrInvalidFilter, key)
	}
	d, err := Parse(css)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.effects[key] = Effect{Key: key, Preview: d.CSS(), Capture: d}
	r.mu.Unlock()
	return nil
}

// Resolve returns the effect for key. Unknown keys and data URLs get the identity effect.
func (r *Registry) Resolve(key string) Effect {
	if strings.HasPrefix(key, "data:") {
		return Effect{Key: "none", Preview: "none", Capture: Identity}
	}

	r.mu.RLock()
	e, ok := r.effects[key]
	r.mu.RUnlock()

	if !ok {
		return Effect{Key: "none", Preview: "none", Capture: Identity}
	}
	return e
}

// Presets lists registered presets sorted by key, "none" first.
func (r *Registry) Presets() []Preset {
	r.mu.RLock()
	presets := make([]Preset, 0, len(r.effects))
	for _, e := range r.effects {
		presets = append(presets, Preset{Key: e.Key, CSS: e.Preview})
	}
	r.mu.RUnlock()

	sort.Slice(presets, func(i, j int) bool {
		if presets[i].Key == "none" || presets[j].Key == "none" {
			return presets[i].Key == "none"
		}
		return presets[i].Key < presets[j].Key
	})
	return presets
}

type presetFile struct {
	Filters map[string]string `yaml:"filters"`
}

// LoadFile registers presets from a YAML file of the form:
//
//	filters:
//	  warm: "sepia(40%) saturate(150%)"
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read filters file: %w", err)
	}

	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse filters file: %w", err)
	}

	for key, css := range file.Filters {
		if err := r.Register(key, css); err != nil {
			return fmt.Errorf("filter %s: %w", key, err)
		}
	}
	return nil
}
