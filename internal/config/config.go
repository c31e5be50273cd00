package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	ListenAddr        string        `yaml:"listen_addr"`
	CorsOrigin        string        `yaml:"cors_origin"`
	SecureCookies     bool          `yaml:"secure_cookies"`
	LogLevel          string        `yaml:"log_level"`
	LogJSON           bool          `yaml:"log_json"`
	JwtTTL            time.Duration `yaml:"jwt_ttl"`
	MaxMessageLen     int           `yaml:"max_message_len"`     // rune cap for message/broadcast/comment content
	BroadcastsPerPage int           `yaml:"broadcasts_per_page"` // max broadcasts returned by the list endpoint
	SearchLimit       int           `yaml:"search_limit"`

	// Live event hub
	EventQueueSize    int           `yaml:"event_queue_size"`    // per-connection outbound queue, events over it are dropped
	KeepAliveInterval time.Duration `yaml:"keep_alive_interval"` // SSE comment / websocket ping period

	// Typing indicators
	TypingStaleness     time.Duration `yaml:"typing_staleness"`      // indicator expires this long after the last signal
	TypingSweepInterval time.Duration `yaml:"typing_sweep_interval"` // background sweep period
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
	Pg     Pg     `yaml:"pg"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (s *Config) applyDefaults() {
	if s.Public.ListenAddr == "" {
		s.Public.ListenAddr = ":8080"
	}
	if s.Public.MaxMessageLen == 0 {
		s.Public.MaxMessageLen = 10_000
	}
	if s.Public.BroadcastsPerPage == 0 {
		s.Public.BroadcastsPerPage = 50
	}
	if s.Public.SearchLimit == 0 {
		s.Public.SearchLimit = 50
	}
	if s.Public.EventQueueSize == 0 {
		s.Public.EventQueueSize = 32
	}
	if s.Public.KeepAliveInterval == 0 {
		s.Public.KeepAliveInterval = 20 * time.Second
	}
	if s.Public.TypingStaleness == 0 {
		s.Public.TypingStaleness = 10 * time.Second
	}
	if s.Public.TypingSweepInterval == 0 {
		s.Public.TypingSweepInterval = 2 * time.Second
	}
	if s.Public.JwtTTL == 0 {
		s.Public.JwtTTL = 24 * time.Hour
	}
}
