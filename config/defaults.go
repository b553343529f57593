package config

import (
	"github.com/spf13/viper"
)

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	// Widget defaults
	v.SetDefault("widget.id", "default")
	v.SetDefault("widget.width", 0) // Zero means measure the terminal
	v.SetDefault("widget.assets.slider_handle", "/assets/img/sliderHandle.svg")
	v.SetDefault("widget.assets.scroll_pin", "/assets/img/scrollPin.svg")

	// Storage defaults
	v.SetDefault("storage.path", "") // Empty means use platform default
	v.SetDefault("storage.history_limit", 50)

	// Display defaults
	v.SetDefault("display.colors", "auto")
	v.SetDefault("display.timezone", "local")

	// Server defaults
	v.SetDefault("server.addr", "127.0.0.1:8420")
}
