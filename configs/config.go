package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Port          string
	Environment   string
	LogLevel      string
	APIKey        string
	AdminUsername string
	AdminPassword string

	WatsonxURL        string
	WatsonxAPIKey     string
	WatsonxProjectID  string
	WatsonxModelID    string
	WatsonxAPIVersion string
	IAMURL            string

	// RegisterPromptTemplate stores the assistant template in the watsonx prompt registry at startup.
	RegisterPromptTemplate bool

	// PromptsFile overrides the embedded prompt catalogue when set.
	PromptsFile string

	ISDA *ISDAConfig
}

var defaults = map[string]interface{}{
	"PORT":                     "8000",
	"ENVIRONMENT":              "development",
	"LOG_LEVEL":                "info",
	"API_KEY":                  "",
	"ADMIN_USERNAME":           "admin",
	"ADMIN_PASSWORD":           "",
	"WATSONX_URL":              "https://us-south.ml.cloud.ibm.com",
	"WATSONX_API_KEY":          "",
	"WATSONX_PROJECT_ID":       "",
	"WATSONX_MODEL_ID":         "ibm/granite-13b-chat-v2",
	"WATSONX_API_VERSION":      "2023-05-29",
	"IBM_IAM_URL":              "https://iam.cloud.ibm.com",
	"REGISTER_PROMPT_TEMPLATE": true,
	"PROMPTS_FILE":             "",
	"ISDA_API_KEY":             "",
	"ISDA_BASE_URL":            "https://api.isda-africa.com",
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	v := newViper()

	return &Config{
		Port:                   v.GetString("PORT"),
		Environment:            v.GetString("ENVIRONMENT"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		APIKey:                 v.GetString("API_KEY"),
		AdminUsername:          v.GetString("ADMIN_USERNAME"),
		AdminPassword:          v.GetString("ADMIN_PASSWORD"),
		WatsonxURL:             strings.TrimSuffix(v.GetString("WATSONX_URL"), "/"),
		WatsonxAPIKey:          v.GetString("WATSONX_API_KEY"),
		WatsonxProjectID:       v.GetString("WATSONX_PROJECT_ID"),
		WatsonxModelID:         v.GetString("WATSONX_MODEL_ID"),
		WatsonxAPIVersion:      v.GetString("WATSONX_API_VERSION"),
		IAMURL:                 strings.TrimSuffix(v.GetString("IBM_IAM_URL"), "/"),
		RegisterPromptTemplate: v.GetBool("REGISTER_PROMPT_TEMPLATE"),
		PromptsFile:            v.GetString("PROMPTS_FILE"),
		ISDA:                   loadISDAConfig(v),
	}
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// newViper returns a viper instance bound to the process environment.
// Empty environment values fall back to the defaults.
func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.AllowEmptyEnv(false)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}
