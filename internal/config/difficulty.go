package config

// Preset is a named set of rule adjustments.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
)

// presetRules lists the fields a preset overrides.
type presetRules struct {
	MinFill        int
	MaxFill        int
	GarbageDivisor int
}

var presets = map[Preset]presetRules{
	// Shallow grids and slow garbage
	PresetEasy: {MinFill: 4, MaxFill: 6, GarbageDivisor: 4},
	PresetNormal: {MinFill: 6, MaxFill: 8, GarbageDivisor: 3},
	// Deep grids and one garbage piece per two cleared
	PresetHard: {MinFill: 7, MaxFill: 9, GarbageDivisor: 2},
}

// Presets returns the known preset names, easiest first.
func Presets() []Preset {
	return []Preset{PresetEasy, PresetNormal, PresetHard}
}

// ApplyPreset overwrites the fill and garbage rules with the preset's values.
// Returns false for an unknown preset and leaves cfg untouched.
func ApplyPreset(cfg *GameConfig, preset Preset) bool {
	p, ok := presets[preset]
	if !ok {
		return false
	}
	cfg.Difficulty = preset
	cfg.MinFill = p.MinFill
	cfg.MaxFill = min(p.MaxFill, cfg.Height)
	cfg.GarbageDivisor = p.GarbageDivisor
	return true
}
