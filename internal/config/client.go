package config

import "time"

// ClientConfig holds the terminal quiz settings
type ClientConfig struct {
	// BaseURL of the submission service; empty runs fully offline
	BaseURL      string `json:"baseUrl"`
	Variant      string `json:"variant"`
	StudiesPath  string `json:"studiesPath"`
	VariantsPath string `json:"variantsPath"`
	TimeoutMS    int    `json:"timeoutMs"`
	MaxRetries   int    `json:"maxRetries"`
}

// LoadClient reads the quiz client settings from the environment.
func LoadClient() *ClientConfig {
	return &ClientConfig{
		BaseURL:      getEnv("QUIZ_API_URL", ""),
		Variant:      getEnv("QUIZ_VARIANT", "reasoned"),
		StudiesPath:  getEnv("STUDIES_PATH", "data/studies.json"),
		VariantsPath: getEnv("VARIANTS_PATH", ""),
		TimeoutMS:    envInt("QUIZ_TIMEOUT_MS", 10000), // 10 second default timeout
		MaxRetries:   envInt("QUIZ_MAX_RETRIES", 3),
	}
}

// IsOnline returns true if a submission service is configured
func (c *ClientConfig) IsOnline() bool {
	return c.BaseURL != ""
}

func (c *ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
