package config

import "github.com/fullbor/finance-mcp/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		API: APIConfig{
			BaseURL:    "https://api.fullbor.ai/v2",
			TimeoutMS:  10000,
			RetryCount: 3,
			RateLimit:  10,
			RateBurst:  5,
		},
		Auth: AuthConfig{
			Region:     "us-east-2",
			UserPoolID: "us-east2_IJ1C0mWXW",
			ClientID:   "1lntksiqrqhmjea6obrrrrnmh1",
		},
		Server: ServerConfig{
			Transport: TransportStdio,
			Host:      "0.0.0.0",
			Port:      3000,
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Format:  "text",
			Outputs: []string{"console"},
		},
	}
}
