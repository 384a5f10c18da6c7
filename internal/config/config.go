// Package config 读取与保存应用配置（viper，JSON 文件）
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// AppName 配置目录名
const AppName = "dotsight"

// Hotkey 快捷键配置
type Hotkey struct {
	Modifiers []string `json:"modifiers" mapstructure:"modifiers"` // ctrl, alt, shift, win
	Key       string   `json:"key" mapstructure:"key"`
}

// Store 配置档存储
type Store struct {
	Backend string `json:"backend" mapstructure:"backend"` // file | sqlite | memory
	Format  string `json:"format" mapstructure:"format"`   // json | yaml
}

// Overlay 覆盖层
type Overlay struct {
	Width        int           `json:"width" mapstructure:"width"`
	Height       int           `json:"height" mapstructure:"height"`
	TickInterval time.Duration `json:"tickInterval" mapstructure:"tickInterval"`
}

// Editor 编辑器
type Editor struct {
	CanvasSize float64 `json:"canvasSize" mapstructure:"canvasSize"`
}

// Behavior 行为配置
type Behavior struct {
	ShowNotification bool `json:"showNotification" mapstructure:"showNotification"`
}

// Config 主配置结构
type Config struct {
	LogLevel string   `json:"logLevel" mapstructure:"logLevel"`
	DataDir  string   `json:"dataDir" mapstructure:"dataDir"`
	Store    Store    `json:"store" mapstructure:"store"`
	Overlay  Overlay  `json:"overlay" mapstructure:"overlay"`
	Editor   Editor   `json:"editor" mapstructure:"editor"`
	Hotkey   Hotkey   `json:"hotkey" mapstructure:"hotkey"`
	Behavior Behavior `json:"behavior" mapstructure:"behavior"`
}

// MarshalJSON 时长按字符串写出，便于手工编辑
func (o Overlay) MarshalJSON() ([]byte, error) {
	type alias Overlay
	return json.Marshal(struct {
		alias
		TickInterval string `json:"tickInterval"`
	}{alias(o), o.TickInterval.String()})
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		DataDir:  DefaultDataDir(),
		Store: Store{
			Backend: "file",
			Format:  "json",
		},
		Overlay: Overlay{
			Width:        200,
			Height:       200,
			TickInterval: 100 * time.Millisecond,
		},
		Editor: Editor{
			CanvasSize: 400,
		},
		Hotkey: Hotkey{
			Modifiers: []string{"ctrl", "shift"},
			Key:       "x",
		},
		Behavior: Behavior{
			ShowNotification: true,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("logLevel", d.LogLevel)
	v.SetDefault("dataDir", d.DataDir)
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.format", d.Store.Format)
	v.SetDefault("overlay.width", d.Overlay.Width)
	v.SetDefault("overlay.height", d.Overlay.Height)
	v.SetDefault("overlay.tickInterval", d.Overlay.TickInterval.String())
	v.SetDefault("editor.canvasSize", d.Editor.CanvasSize)
	v.SetDefault("hotkey.modifiers", d.Hotkey.Modifiers)
	v.SetDefault("hotkey.key", d.Hotkey.Key)
	v.SetDefault("behavior.showNotification", d.Behavior.ShowNotification)
}

// configDir 按平台返回配置目录
func configDir() string {
	var dir string
	if runtime.GOOS == "windows" {
		dir = os.Getenv("APPDATA")
		if dir == "" {
			homeDir, _ := os.UserHomeDir()
			dir = filepath.Join(homeDir, "AppData", "Roaming")
		}
	} else {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(dir, AppName)
}

// GetConfigPath 获取配置文件路径
func GetConfigPath() string {
	return filepath.Join(configDir(), "config.json")
}

// DefaultDataDir 配置档与日志的默认目录
func DefaultDataDir() string {
	return configDir()
}

// Load 从默认路径加载配置，文件不存在时写出默认配置
func Load() (*Config, error) {
	path := GetConfigPath()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		cfg := DefaultConfig()
		_ = cfg.Save(path)
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile 读取指定配置文件；文件不存在时只使用默认值
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("decode config: %w", err)
	}

	cfg.Validate()
	return &cfg, nil
}

// Validate 验证并修正配置值
func (c *Config) Validate() {
	defaults := DefaultConfig()

	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil || c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	} else {
		c.LogLevel = strings.ToLower(c.LogLevel)
	}

	if c.DataDir == "" || strings.Contains(c.DataDir, "..") {
		c.DataDir = defaults.DataDir
	}
	if len(c.DataDir) > 0 && c.DataDir[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		c.DataDir = filepath.Join(homeDir, c.DataDir[1:])
	}

	switch b := strings.ToLower(c.Store.Backend); b {
	case "file", "sqlite", "memory":
		c.Store.Backend = b
	default:
		c.Store.Backend = defaults.Store.Backend
	}
	switch f := strings.ToLower(c.Store.Format); f {
	case "json", "yaml":
		c.Store.Format = f
	case "yml":
		c.Store.Format = "yaml"
	default:
		c.Store.Format = defaults.Store.Format
	}

	if c.Overlay.Width < 16 || c.Overlay.Width > 4096 {
		c.Overlay.Width = defaults.Overlay.Width
	}
	if c.Overlay.Height < 16 || c.Overlay.Height > 4096 {
		c.Overlay.Height = defaults.Overlay.Height
	}
	if c.Overlay.TickInterval < 10*time.Millisecond || c.Overlay.TickInterval > 5*time.Second {
		c.Overlay.TickInterval = defaults.Overlay.TickInterval
	}

	if c.Editor.CanvasSize < 100 || c.Editor.CanvasSize > 2000 {
		c.Editor.CanvasSize = defaults.Editor.CanvasSize
	}

	if c.Hotkey.Key == "" {
		c.Hotkey = defaults.Hotkey
	}
	validMods := map[string]bool{"ctrl": true, "alt": true, "shift": true, "win": true, "cmd": true, "control": true, "option": true, "super": true, "command": true}
	validatedMods := []string{}
	for _, mod := range c.Hotkey.Modifiers {
		if validMods[strings.ToLower(mod)] {
			validatedMods = append(validatedMods, strings.ToLower(mod))
		}
	}
	if len(validatedMods) == 0 {
		c.Hotkey.Modifiers = defaults.Hotkey.Modifiers
	} else {
		c.Hotkey.Modifiers = validatedMods
	}
}

// Save 保存配置
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetHotkey 设置快捷键并保存到默认路径
func (c *Config) SetHotkey(modifiers []string, key string) error {
	c.Hotkey.Modifiers = modifiers
	c.Hotkey.Key = key
	return c.Save(GetConfigPath())
}

// GetHotkeyString 获取快捷键的字符串表示
func (c *Config) GetHotkeyString() string {
	parts := append([]string{}, c.Hotkey.Modifiers...)
	parts = append(parts, c.Hotkey.Key)
	return strings.Join(parts, "+")
}

// LogFile 日志文件路径
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, AppName+".log")
}
