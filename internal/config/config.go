package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the two pipeline paths and the serve settings.
type Config struct {
	InputCSV    string   `mapstructure:"input_csv" yaml:"input_csv"`
	OutputCSV   string   `mapstructure:"output_csv" yaml:"output_csv"`
	ListenAddr  string   `mapstructure:"listen_addr" yaml:"listen_addr"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.noshowboard/config.yaml, creating the directory if
// necessary.
func Save(c *Config, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".noshowboard")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NOSHOWBOARD")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input_csv", filepath.Join("data", "appointments.csv"))
	v.SetDefault("output_csv", filepath.Join("data", "cleaned_data.csv"))
	v.SetDefault("listen_addr", ":8001")
	v.SetDefault("cors_origins", []string{"http://localhost:3000"})

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".noshowboard")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
