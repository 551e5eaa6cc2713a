package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/instruction-catalog/internal/catalog"
)

const (
	// Mode constants
	ModeExtract = "extract"
	ModeStdio   = "stdio"
	ModeServer  = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultManualPath  = "resources/AssemblerZ80.pdf"
	DefaultOutputPath  = "output/z80asm-keywords.json"

	// EnvPrefix prefixes every environment variable read by the program
	EnvPrefix = "INSTRUCTION_CATALOG"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// ErrVersionRequested is returned by LoadFromFlags when -v/--version is given
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the instruction catalog
type Config struct {
	// Run mode: extract writes the catalog file, stdio and server expose MCP tools
	Mode string
	Host string
	Port int

	// Manual configuration
	ManualPath     string
	ManualURL      string
	PhysicalOffset int
	Anchors        []catalog.GroupAnchor
	Strict         bool
	MaxFileSize    int64 // Maximum PDF file size in bytes

	OutputPath string

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
	ConfigFile string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:           ModeExtract,
		Host:           DefaultHost,
		Port:           DefaultPort,
		ManualPath:     DefaultManualPath,
		ManualURL:      catalog.DefaultBaseURL,
		PhysicalOffset: catalog.DefaultPhysicalOffset,
		Anchors:        append([]catalog.GroupAnchor(nil), catalog.DefaultAnchors...),
		MaxFileSize:    DefaultMaxFileSize,
		OutputPath:     DefaultOutputPath,
		Version:        "1.0.0",
		ServerName:     "instruction-catalog",
		LogLevel:       DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	return Load(pflag.CommandLine, os.Args[1:])
}

// Load parses args into fs and merges them with the environment, an
// optional .env file and an optional config file. Precedence, highest
// first: flags, environment, config file, defaults.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	cfg := DefaultConfig()

	// A missing .env file is not an error
	_ = godotenv.Load()

	v := viper.New()
	setupViperEnvironment(v, cfg)
	defineCommandLineFlags(fs, cfg)
	setupUsageMessage(fs)

	if err := checkVersionFlag(args); err != nil {
		return nil, err
	}

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	if err := populateConfigFromViper(v, cfg); err != nil {
		return nil, err
	}

	// Expand paths if needed
	if cfg.ManualPath != "" {
		if expandedPath, err := filepath.Abs(cfg.ManualPath); err == nil {
			cfg.ManualPath = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("manual", cfg.ManualPath)
	v.SetDefault("manualurl", cfg.ManualURL)
	v.SetDefault("offset", cfg.PhysicalOffset)
	v.SetDefault("strict", cfg.Strict)
	v.SetDefault("output", cfg.OutputPath)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("mode", cfg.Mode, "Run mode: 'extract' writes the catalog, 'stdio' or 'server' serve MCP tools")
	fs.String("host", cfg.Host, "Server host address (server mode only)")
	fs.Int("port", cfg.Port, "Server port (server mode only)")
	fs.String("manual", cfg.ManualPath, "Path to the Z80 CPU User Manual PDF")
	fs.String("manualurl", cfg.ManualURL, "Published URL of the manual, used for record links")
	fs.Int("offset", cfg.PhysicalOffset, "Front matter pages preceding logical page 1")
	fs.Bool("strict", cfg.Strict, "Validate the manual with pdfcpu before extraction")
	fs.String("output", cfg.OutputPath, "Catalog output file (extract mode only)")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	fs.String("config", "", "Optional config file (yaml, json or toml) overriding the anchor table")
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage(fs *pflag.FlagSet) {
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nInstruction Catalog - Builds a JSON catalog of the Z80 instruction set from its user manual\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --manual=AssemblerZ80.pdf                    # write output/z80asm-keywords.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --manual=AssemblerZ80.pdf --output=z80.json  # custom output file\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --manual=AssemblerZ80.pdf       # MCP over stdio\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --port=8081                    # MCP over SSE\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables (a .env file is read if present):\n")
		fmt.Fprintf(os.Stderr, "  %s_MODE        Run mode\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_MANUAL      Manual path\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_OUTPUT      Output file\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_LOGLEVEL    Log level\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_HOST        Server host\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_PORT        Server port\n", EnvPrefix)
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag(args []string) error {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) error {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.ManualPath = v.GetString("manual")
	cfg.ManualURL = v.GetString("manualurl")
	cfg.PhysicalOffset = v.GetInt("offset")
	cfg.Strict = v.GetBool("strict")
	cfg.OutputPath = v.GetString("output")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.ConfigFile = v.GetString("config")

	if v.IsSet("anchors") {
		var anchors []catalog.GroupAnchor
		if err := v.UnmarshalKey("anchors", &anchors); err != nil {
			return fmt.Errorf("invalid anchors: %w", err)
		}
		cfg.Anchors = anchors
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeExtract && c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be one of 'extract', 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.ManualPath == "" {
		return errors.New("manual path cannot be empty")
	}

	if c.Mode == ModeExtract && c.OutputPath == "" {
		return errors.New("output path cannot be empty in extract mode")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if len(c.Anchors) == 0 {
		return errors.New("at least one group anchor is required")
	}

	// The manual profile applies the remaining anchor rules
	if _, err := c.Manual(); err != nil {
		return err
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Manual builds the manual profile described by the configuration
func (c *Config) Manual() (*catalog.Manual, error) {
	return catalog.NewManual(c.ManualURL, c.PhysicalOffset, c.Anchors)
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, ManualPath: %s, ManualURL: %s, Offset: %d, "+
		"Anchors: %d, Strict: %t, OutputPath: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.ManualPath, c.ManualURL, c.PhysicalOffset,
		len(c.Anchors), c.Strict, c.OutputPath, c.LogLevel, c.MaxFileSize)
}

// IsExtractMode returns true if the program writes the catalog and exits
func (c *Config) IsExtractMode() bool {
	return c.Mode == ModeExtract
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
