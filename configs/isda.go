package config

import (
	"strings"

	"github.com/spf13/viper"
)

// ISDAConfig iSDAsoil soil property API settings
type ISDAConfig struct {
	APIKey  string
	BaseURL string
}

func loadISDAConfig(v *viper.Viper) *ISDAConfig {
	return &ISDAConfig{
		APIKey:  v.GetString("ISDA_API_KEY"),
		BaseURL: strings.TrimSuffix(v.GetString("ISDA_BASE_URL"), "/"),
	}
}

// GetISDAConfig reads the soil API settings from the environment
func GetISDAConfig() *ISDAConfig {
	return loadISDAConfig(newViper())
}
