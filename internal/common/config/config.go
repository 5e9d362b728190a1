// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App             AppConfig             `mapstructure:"app"`
	Server          ServerConfig          `mapstructure:"server"`
	Questionnaire   QuestionnaireConfig   `mapstructure:"questionnaire"`
	Recommendations RecommendationsConfig `mapstructure:"recommendations"`
	PDF             PDFConfig             `mapstructure:"pdf"`
	Cache           CacheConfig           `mapstructure:"cache"`
	Observability   ObservabilityConfig   `mapstructure:"observability"`
	Logging         LoggingConfig         `mapstructure:"logging"`

	// EnvFile is the .env file loaded before reading, if any.
	EnvFile string `mapstructure:"-"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string   `mapstructure:"address"`
	StaticDir       string   `mapstructure:"static_dir"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	MaxBodyBytes    string   `mapstructure:"max_body_bytes"`   // echo BodyLimit syntax, e.g. "1M"
}

// QuestionnaireConfig points at the static questionnaire and tone matrix files.
// Empty paths select the embedded defaults.
type QuestionnaireConfig struct {
	QuestionsPath  string `mapstructure:"questions_path"`
	ToneMatrixPath string `mapstructure:"tone_matrix_path"`
}

type RecommendationsConfig struct {
	// MaxCategories limits recommendations to the N worst categories; 0 means all.
	MaxCategories   int    `mapstructure:"max_categories"`
	DefaultCatalyst string `mapstructure:"default_catalyst"`
}

type PDFConfig struct {
	Title          string  `mapstructure:"title"`
	Filename       string  `mapstructure:"filename"`
	BaseFontSize   float64 `mapstructure:"base_font_size"`
	DateFormat     string  `mapstructure:"date_format"`
	RenderTimeout  int     `mapstructure:"render_timeout"` // milliseconds
	CompressOutput bool    `mapstructure:"compress_output"`
}

// CacheConfig controls the optional rendered-PDF cache.
type CacheConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	TTL     int         `mapstructure:"ttl"` // milliseconds
	Prefix  string      `mapstructure:"prefix"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ObservabilityConfig struct {
	ServiceName    string  `mapstructure:"service_name"`
	MetricsEnabled bool    `mapstructure:"metrics_enabled"`
	OTLPEndpoint   string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure   bool    `mapstructure:"otlp_insecure"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// String renders the non-secret parts of the configuration for startup logs.
func (c *Config) String() string {
	return fmt.Sprintf(
		"app=%s@%s env=%s addr=%s static=%s cache=%t metrics=%t",
		c.App.Name, c.App.Version, c.App.Environment,
		c.Server.Address, c.Server.StaticDir,
		c.Cache.Enabled, c.Observability.MetricsEnabled,
	)
}
