package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 应用总配置，按环境加载
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Interpreter InterpreterConfig `yaml:"interpreter"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Mode           string   `yaml:"mode"`            // debug, release
	AllowedOrigins []string `yaml:"allowed_origins"` // 为空时允许任意来源
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

type InterpreterConfig struct {
	RulesFile   string `yaml:"rules_file"`   // 为空时使用内置意图表
	Timezone    string `yaml:"timezone"`     // 请求未给出 now 时使用的时区，如 Asia/Tokyo
	DefaultTime string `yaml:"default_time"` // datetime 字段缺省时刻 HH:MM
	Suggestions bool   `yaml:"suggestions"`  // 未命中时给出相近命令提示
}

// Default 无配置文件时的默认值
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, Mode: "debug"},
		Log:    LogConfig{Level: "info", Format: "json"},
		Interpreter: InterpreterConfig{
			Timezone:    "Local",
			DefaultTime: "12:00",
			Suggestions: true,
		},
	}
}

// Load 根据环境变量 APP_ENV 加载对应配置文件
// 支持: local, dev, prod，默认 local；文件不存在时使用默认值
func Load() (*Config, error) {
	// .env 可选
	_ = godotenv.Load()

	path := fmt.Sprintf("config/%s.yaml", Env())
	cfg, err := read(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

// LoadFile 加载指定配置文件，文件必须存在
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

// Env 当前环境名
func Env() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "local"
}

// Location 解析时区；空值或 Local 为本地时区
func (c InterpreterConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q: want debug, release or test", c.Server.Mode)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "text", "console":
	default:
		return fmt.Errorf("log.format %q: want json or text", c.Log.Format)
	}
	if _, err := c.Interpreter.Location(); err != nil {
		return fmt.Errorf("interpreter.%w", err)
	}
	return nil
}

func read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	// 在默认值上覆盖，文件中未出现的项保留默认
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func finish(cfg *Config) (*Config, error) {
	if err := overrideFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideFromEnv(c *Config) error {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SERVER_PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		c.Server.Mode = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("INTERPRETER_RULES"); v != "" {
		c.Interpreter.RulesFile = v
	}
	if v := os.Getenv("INTERPRETER_TIMEZONE"); v != "" {
		c.Interpreter.Timezone = v
	}
	return nil
}
