package camera

// Preset names for common configurations
const (
	PresetDefault = "default"
	PresetLegacy  = "legacy"
	Preset720p    = "720p"
	Preset1080p   = "1080p"
)

// Presets returns all available preset configurations.
func Presets() map[string]Config {
	return map[string]Config{
		PresetDefault: DefaultConfig(),
		PresetLegacy:  LegacyConfig(),
		Preset720p:    HD720Config(),
		Preset1080p:   HD1080Config(),
	}
}

// PresetNames returns the list of available preset names.
func PresetNames() []string {
	return []string{
		PresetDefault,
		PresetLegacy,
		Preset720p,
		Preset1080p,
	}
}

// GetPreset returns a preset config by name, or nil if not found.
func GetPreset(name string) *Config {
	presets := Presets()
	if cfg, ok := presets[name]; ok {
		return &cfg
	}
	return nil
}

// HD720Config returns 720p HD configuration.
// Good balance of quality and per-frame segmentation cost.
func HD720Config() Config {
	cfg := DefaultConfig()
	cfg.Width = 1280
	cfg.Height = 720
	return cfg
}

// HD1080Config returns 1080p at 30 FPS.
func HD1080Config() Config {
	cfg := DefaultConfig()
	cfg.Framerate = 30
	return cfg
}
