package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Ключі, які можна перемикати з /settings.
const (
	KeyAutoDetect = "auto_detect"
	KeyFastSearch = "fast_search"
	KeyDeleteURL  = "delete_url"
)

type Telegram struct {
	AppID    int
	APIHash  string
	BotToken string
	ChatID   int64
}

type Download struct {
	Dir       string        `mapstructure:"dir"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxSizeMB int64         `mapstructure:"max_size_mb"`
	Retention time.Duration `mapstructure:"retention"`
}

type Resolver struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Metadata struct {
	Strategies []string `mapstructure:"strategies"`
	SearchURL  string   `mapstructure:"search_url"`
	Cookies    string   `mapstructure:"cookies"`
	YtdlpPath  string   `mapstructure:"ytdlp_path"`
	Workers    int64    `mapstructure:"workers"`
}

type Lease struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Config is the startup snapshot. Runtime toggles live in Store.
type Config struct {
	Telegram   Telegram `mapstructure:"-"`
	CaptionTag string   `mapstructure:"caption_tag"`
	Database   string   `mapstructure:"database"`
	Session    string   `mapstructure:"session"`
	LogFile    string   `mapstructure:"log_file"`
	Debug      bool     `mapstructure:"debug"`
	Download   Download `mapstructure:"download"`
	Resolver   Resolver `mapstructure:"resolver"`
	Metadata   Metadata `mapstructure:"metadata"`
	Lease      Lease    `mapstructure:"lease"`
	Redis      Redis    `mapstructure:"redis"`
}

// Store guards the viper instance: handlers read toggles while /settings writes them.
type Store struct {
	mu sync.RWMutex
	v  *viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("allowed_chat", []int{})
	v.SetDefault("allowed_user", []int{})
	v.SetDefault(KeyAutoDetect, true)
	v.SetDefault(KeyFastSearch, true)
	v.SetDefault(KeyDeleteURL, false)
	v.SetDefault("caption_tag", "@Socialdownloader1_bot")
	v.SetDefault("database", "bot.db")
	v.SetDefault("session", "session.db")
	v.SetDefault("log_file", "bot.log")
	v.SetDefault("debug", false)

	v.SetDefault("download.dir", "repository/Youtube")
	v.SetDefault("download.timeout", 90*time.Second)
	v.SetDefault("download.max_size_mb", 2000)
	v.SetDefault("download.retention", 30*time.Minute)

	v.SetDefault("resolver.base_url", "https://apex.srvopus.workers.dev")
	v.SetDefault("resolver.timeout", 90*time.Second)

	v.SetDefault("metadata.strategies", []string{"search", "native", "ytdlp"})
	v.SetDefault("metadata.search_url", "")
	v.SetDefault("metadata.cookies", "cookies/cookies.txt")
	v.SetDefault("metadata.ytdlp_path", "yt-dlp")
	v.SetDefault("metadata.workers", 4)

	v.SetDefault("lease.backend", "sqlite")
	v.SetDefault("lease.ttl", 2*time.Minute)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}

// Load reads .env (if any) and the yaml config at path. A missing config file
// is created from defaults so that /settings has somewhere to write.
func Load(path string) (*Config, *Store, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, nil, errors.Wrap(err, "load .env")
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("YTBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, nil, errors.Wrapf(err, "read config %s", path)
			}
		}
		if err := v.SafeWriteConfigAs(path); err != nil {
			return nil, nil, errors.Wrapf(err, "write default config %s", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, errors.Wrap(err, "decode config")
	}
	tgCfg, err := telegramFromEnv()
	if err != nil {
		return nil, nil, err
	}
	cfg.Telegram = tgCfg

	return cfg, &Store{v: v}, nil
}

func telegramFromEnv() (Telegram, error) {
	var t Telegram
	appID, err := strconv.Atoi(os.Getenv("APP_ID"))
	if err != nil {
		return t, errors.Wrap(err, "APP_ID")
	}
	t.AppID = appID
	t.APIHash = os.Getenv("API_HASH")
	t.BotToken = os.Getenv("BOT_TOKEN")
	if t.BotToken == "" {
		return t, errors.New("BOT_TOKEN не задано")
	}
	if chat := os.Getenv("CHAT_ID"); chat != "" {
		id, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return t, errors.Wrap(err, "CHAT_ID")
		}
		t.ChatID = id
	}
	return t, nil
}

// NewStore wraps an existing viper instance. Used by tests and tools.
func NewStore(v *viper.Viper) *Store {
	setDefaults(v)
	return &Store{v: v}
}

func (s *Store) Bool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetBool(key)
}

func (s *Store) Int64Slice(key string) []int64 {
	s.mu.RLock()
	raw := s.v.GetIntSlice(key)
	s.mu.RUnlock()

	out := make([]int64, 0, len(raw))
	for _, id := range raw {
		out = append(out, int64(id))
	}
	return out
}

// Toggle flips a boolean key and persists the config file.
func (s *Store) Toggle(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val := !s.v.GetBool(key)
	s.v.Set(key, val)
	if s.v.ConfigFileUsed() == "" {
		return val, nil
	}
	if err := s.v.WriteConfig(); err != nil {
		s.v.Set(key, !val)
		return !val, errors.Wrap(err, "save config")
	}
	return val, nil
}

// Watch reloads the file on change (e.g. hand-edited allowed_user).
func (s *Store) Watch(onChange func(name string)) {
	s.v.OnConfigChange(func(e fsnotify.Event) {
		if onChange != nil {
			onChange(e.Name)
		}
	})
	s.v.WatchConfig()
}
