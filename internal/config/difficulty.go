package config

import "fmt"

// DifficultyPreset represents a named opponent difficulty.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// AIDifficultyForPreset returns the opponent speed fraction for a preset.
func AIDifficultyForPreset(preset DifficultyPreset) (float64, bool) {
	switch preset {
	case DifficultyEasy:
		return 0.5, true
	case DifficultyNormal:
		return 0.7, true
	case DifficultyHard:
		return 0.9, true
	default:
		return 0, false
	}
}

// ApplyPreset sets the practice difficulty from a preset name. An empty name
// leaves the configuration unchanged.
func ApplyPreset(cfg *ClientConfig, preset DifficultyPreset) error {
	if preset == "" {
		return nil
	}
	level, ok := AIDifficultyForPreset(preset)
	if !ok {
		return fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", preset)
	}
	cfg.Practice.Difficulty = level
	return nil
}
