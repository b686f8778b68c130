package quality

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is the rendering parameter set for one quality level.
type Preset struct {
	// Shadows enables shadow rendering at this level. The governor can
	// still force shadows off at the floor level.
	Shadows bool `yaml:"shadows"`

	// ShadowMapSize is the shadow map resolution in pixels.
	ShadowMapSize int `yaml:"shadow_map_size"`

	// LOD scales geometric level of detail in (0,1].
	LOD float64 `yaml:"lod"`

	// TextureScale scales texture resolution in (0,1].
	TextureScale float64 `yaml:"texture_scale"`

	// Segments is the mug body segment count.
	Segments int `yaml:"segments"`
}

var presets = mustParsePresets(presetsYAML)

func mustParsePresets(raw []byte) map[Level]Preset {
	var table map[Level]Preset
	if err := yaml.Unmarshal(raw, &table); err != nil {
		panic(fmt.Sprintf("quality: parsing embedded presets: %v", err))
	}
	for _, level := range ladder {
		if _, ok := table[level]; !ok {
			panic(fmt.Sprintf("quality: embedded presets missing level %q", level))
		}
	}
	return table
}

// PresetFor returns the parameter set for level. Unknown levels fall back
// to the floor preset.
func PresetFor(level Level) Preset {
	if p, ok := presets[level]; ok {
		return p
	}
	return presets[LevelLow]
}
