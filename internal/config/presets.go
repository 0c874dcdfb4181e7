package config

import "sort"

// Presets are named sensor setups applied over the default config.
var Presets = map[string]func(*Config){
	"calm": func(c *Config) {
		c.Sensor.Amplitude = 0.5
		c.Sensor.Frequency = 0.1
		c.Sensor.Noise = 0.01
	},
	"shaky": func(c *Config) {
		c.Sensor.Amplitude = 8.0
		c.Sensor.Frequency = 1.5
		c.Sensor.Noise = 0.8
	},
	// Steady tilt toward the bottom-right corner. Device x is inverted, so
	// a negative bias pushes right.
	"corner": func(c *Config) {
		c.Sensor.Amplitude = 0
		c.Sensor.Noise = 0
		c.Sensor.BiasX = -4.0
		c.Sensor.BiasY = 4.0
	},
	"drift": func(c *Config) {
		c.Sensor.Amplitude = 2.0
		c.Sensor.Frequency = 0.05
		c.Sensor.Noise = 0.02
		c.Sensor.BiasY = 1.0
	},
}

// GetPreset returns the default config with the named preset applied, or
// nil if there is no such preset.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
