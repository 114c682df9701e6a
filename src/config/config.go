package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"screen-cropper/src/cropper"
	"screen-cropper/src/singleinstance"
)

const (
	// EnvPathEnvVar points at a .env file used when none sits beside the
	// executable.
	EnvPathEnvVar = "SCREEN_CROPPER"
	// ConfigPathEnvVar points at the YAML config file.
	ConfigPathEnvVar = "SCREEN_CROPPER_CONFIG"
	ConfigFileName   = "config.yaml"

	SelectionModeOutside   = "outside"
	SelectionModeSelection = "selection"

	DefaultHotkey    = "Ctrl+Alt+S"
	DefaultPortStart = singleinstance.DefaultPortStart
	DefaultPortEnd   = singleinstance.DefaultPortEnd
)

var ErrInvalidConfigFile = errors.New("invalid config file")

type LoadOptions struct {
	// ConfigPath overrides the YAML file location. A missing file is an
	// error only when set here.
	ConfigPath string
	// EnvPath overrides the .env location.
	EnvPath string

	SelectionModeOverride   string
	OutputDirOverride       string
	LogLevelOverride        string
	IncludeWindowsOverride  *bool
	CopyToClipboardOverride *bool
}

type Config struct {
	AutoBounding      bool
	SelectionMode     string
	MaskColor         color.RGBA
	HandleTolerance   float64
	IncludeWindows    bool
	OutputDir         string
	CopyToClipboard   bool
	EnableFileLogging bool
	LogLevel          logger.Level
	Hotkey            string
	PortStart         int
	PortEnd           int

	// ConfigFile and EnvFile are the files that were read, if any.
	ConfigFile string
	EnvFile    string
	// Warnings lists rejected values; the previous layer's value was kept.
	Warnings []string
}

// fileConfig mirrors Config in YAML. Absent keys keep their defaults.
type fileConfig struct {
	AutoBounding      *bool    `yaml:"auto_bounding"`
	SelectionMode     *string  `yaml:"selection_mode"`
	MaskColor         *string  `yaml:"mask_color"`
	HandleTolerance   *float64 `yaml:"handle_tolerance"`
	IncludeWindows    *bool    `yaml:"include_windows"`
	OutputDir         *string  `yaml:"output_dir"`
	CopyToClipboard   *bool    `yaml:"copy_to_clipboard"`
	EnableFileLogging *bool    `yaml:"enable_file_logging"`
	LogLevel          *string  `yaml:"log_level"`
	Hotkey            *string  `yaml:"hotkey"`
	PortStart         *int     `yaml:"singleinstance_port_start"`
	PortEnd           *int     `yaml:"singleinstance_port_end"`
}

func Default() *Config {
	return &Config{
		SelectionMode:   SelectionModeOutside,
		MaskColor:       cropper.DefaultMaskColor,
		HandleTolerance: cropper.DefaultHandleTolerance,
		OutputDir:       ".",
		LogLevel:        logger.LevelInfo,
		Hotkey:          DefaultHotkey,
		PortStart:       DefaultPortStart,
		PortEnd:         DefaultPortEnd,
	}
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions layers, lowest first: defaults, the YAML file, the .env
// file, the process environment and the overrides in opts.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	cfg := Default()

	if err := cfg.applyFile(opts.ConfigPath); err != nil {
		return nil, err
	}

	envPath := opts.EnvPath
	if envPath == "" {
		envPath = resolveEnvPath()
	}
	dotenvValues := readDotenvValues(envPath)
	if len(dotenvValues) > 0 {
		cfg.EnvFile = envPath
	}
	cfg.applyEnv(func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenvValues[key]
	})

	cfg.applyOverrides(opts)
	return cfg, nil
}

// Cropper returns the selection settings.
func (c *Config) Cropper() cropper.Config {
	return cropper.Config{
		AutoBounding:       c.AutoBounding,
		HighlightSelection: c.SelectionMode == SelectionModeSelection,
		MaskColor:          c.MaskColor,
		HandleTolerance:    c.HandleTolerance,
	}
}

// Ports returns the single-instance port range.
func (c *Config) Ports() singleinstance.PortRange {
	return singleinstance.PortRange{Start: c.PortStart, End: c.PortEnd}.Normalize()
}

func (c *Config) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func (c *Config) applyFile(explicit string) error {
	path := explicit
	if path == "" {
		path = resolveConfigPath()
	}
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if explicit == "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfigFile, path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfigFile, path, err)
	}
	c.ConfigFile = path

	if fc.AutoBounding != nil {
		c.AutoBounding = *fc.AutoBounding
	}
	if fc.SelectionMode != nil {
		c.setSelectionMode("selection_mode", *fc.SelectionMode)
	}
	if fc.MaskColor != nil {
		c.setMaskColor("mask_color", *fc.MaskColor)
	}
	if fc.HandleTolerance != nil {
		c.setHandleTolerance("handle_tolerance", *fc.HandleTolerance)
	}
	if fc.IncludeWindows != nil {
		c.IncludeWindows = *fc.IncludeWindows
	}
	if fc.OutputDir != nil && *fc.OutputDir != "" {
		c.OutputDir = *fc.OutputDir
	}
	if fc.CopyToClipboard != nil {
		c.CopyToClipboard = *fc.CopyToClipboard
	}
	if fc.EnableFileLogging != nil {
		c.EnableFileLogging = *fc.EnableFileLogging
	}
	if fc.LogLevel != nil {
		c.setLogLevel("log_level", *fc.LogLevel)
	}
	if fc.Hotkey != nil && *fc.Hotkey != "" {
		c.Hotkey = *fc.Hotkey
	}
	if fc.PortStart != nil {
		c.PortStart = *fc.PortStart
	}
	if fc.PortEnd != nil {
		c.PortEnd = *fc.PortEnd
	}
	return nil
}

func (c *Config) applyEnv(get func(string) string) {
	if v := get("AUTO_BOUNDING"); v != "" {
		c.setBool("AUTO_BOUNDING", v, &c.AutoBounding)
	}
	if v := get("SELECTION_MODE"); v != "" {
		c.setSelectionMode("SELECTION_MODE", v)
	}
	if v := get("MASK_COLOR"); v != "" {
		c.setMaskColor("MASK_COLOR", v)
	}
	if v := get("HANDLE_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			c.setHandleTolerance("HANDLE_TOLERANCE", f)
		} else {
			c.warnf("HANDLE_TOLERANCE: %q is not a number", v)
		}
	}
	if v := get("INCLUDE_WINDOWS"); v != "" {
		c.setBool("INCLUDE_WINDOWS", v, &c.IncludeWindows)
	}
	if v := get("OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := get("COPY_TO_CLIPBOARD"); v != "" {
		c.setBool("COPY_TO_CLIPBOARD", v, &c.CopyToClipboard)
	}
	if v := get("ENABLE_FILE_LOGGING"); v != "" {
		c.setBool("ENABLE_FILE_LOGGING", v, &c.EnableFileLogging)
	}
	if v := get("LOG_LEVEL"); v != "" {
		c.setLogLevel("LOG_LEVEL", v)
	}
	if v := get("HOTKEY"); v != "" {
		c.Hotkey = v
	}
	if v := get("SINGLEINSTANCE_PORT_START"); v != "" {
		c.setInt("SINGLEINSTANCE_PORT_START", v, &c.PortStart)
	}
	if v := get("SINGLEINSTANCE_PORT_END"); v != "" {
		c.setInt("SINGLEINSTANCE_PORT_END", v, &c.PortEnd)
	}
}

func (c *Config) applyOverrides(opts LoadOptions) {
	if v := strings.TrimSpace(opts.SelectionModeOverride); v != "" {
		c.setSelectionMode("--mode", v)
	}
	if v := strings.TrimSpace(opts.OutputDirOverride); v != "" {
		c.OutputDir = v
	}
	if v := strings.TrimSpace(opts.LogLevelOverride); v != "" {
		c.setLogLevel("--log-level", v)
	}
	if opts.IncludeWindowsOverride != nil {
		c.IncludeWindows = *opts.IncludeWindowsOverride
	}
	if opts.CopyToClipboardOverride != nil {
		c.CopyToClipboard = *opts.CopyToClipboardOverride
	}
}

func (c *Config) setSelectionMode(source, v string) {
	mode, ok := ParseSelectionMode(v)
	if !ok {
		c.warnf("%s: unknown selection mode %q", source, v)
		return
	}
	c.SelectionMode = mode
}

func (c *Config) setMaskColor(source, v string) {
	col, err := ParseColor(v)
	if err != nil {
		c.warnf("%s: %v", source, err)
		return
	}
	c.MaskColor = col
}

func (c *Config) setHandleTolerance(source string, f float64) {
	if f < 0 {
		c.warnf("%s: negative tolerance %g", source, f)
		return
	}
	c.HandleTolerance = f
}

func (c *Config) setLogLevel(source, v string) {
	var level logger.Level
	if err := level.Set(strings.TrimSpace(v)); err != nil {
		c.warnf("%s: %v", source, err)
		return
	}
	c.LogLevel = level
}

func (c *Config) setBool(source, v string, dst *bool) {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		c.warnf("%s: %q is not a boolean", source, v)
		return
	}
	*dst = b
}

func (c *Config) setInt(source, v string, dst *int) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		c.warnf("%s: %q is not an integer", source, v)
		return
	}
	*dst = n
}

// ParseSelectionMode accepts "outside" and "selection", plus the aliases
// "dim" and "highlight".
func ParseSelectionMode(v string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case SelectionModeOutside, "dim":
		return SelectionModeOutside, true
	case SelectionModeSelection, "highlight":
		return SelectionModeSelection, true
	}
	return "", false
}

// ParseColor accepts "r,g,b,a" with decimal components, "#rrggbbaa" and
// "#rrggbb" (opaque).
func ParseColor(v string) (color.RGBA, error) {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "#") {
		hex := v[1:]
		if len(hex) == 6 {
			hex += "ff"
		}
		if len(hex) != 8 {
			return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", v)
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: %w", v, err)
		}
		return color.RGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
	}

	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return color.RGBA{}, fmt.Errorf("color %q: want r,g,b,a", v)
	}
	var c [4]uint8
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: component %d: %w", v, i, err)
		}
		c[i] = uint8(n)
	}
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
}

func executableDir() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(execPath)
}

func resolveConfigPath() string {
	if alt := os.Getenv(ConfigPathEnvVar); alt != "" {
		return alt
	}
	if dir := executableDir(); dir != "" {
		return filepath.Join(dir, ConfigFileName)
	}
	return ""
}

func resolveEnvPath() string {
	if dir := executableDir(); dir != "" {
		exeEnv := filepath.Join(dir, ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func readDotenvValues(envPath string) map[string]string {
	if envPath == "" {
		return map[string]string{}
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		return map[string]string{}
	}

	return values
}
