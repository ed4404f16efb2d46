package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, so "db.host" is read from
// LMS_DB_HOST.
const EnvPrefix = "LMS"

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

type KafkaConfig struct {
	Brokers       []string
	ConsumerGroup string
	// EventsTopic receives every domain event.
	EventsTopic string
	// ScoreTopic carries credit score work items for scorerd.
	ScoreTopic string
}

type RedisConfig struct {
	// Addr is empty when payments should be serialised in-process only.
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

type AuthConfig struct {
	// Enabled turns on bearer token checks for both listeners.
	Enabled       bool
	Secret        string
	PublicKeyFile string
	Issuer        string
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// Enabled reports whether both files are configured.
func (t TLSConfig) Enabled() bool { return t.CertFile != "" && t.KeyFile != "" }

type LogConfig struct {
	Level  string
	Format string
}

type Config struct {
	ServiceName     string
	GRPCPort        int
	HTTPPort        int
	MetricsPort     int
	ShutdownTimeout time.Duration
	OTLPEndpoint    string
	DB              DatabaseConfig
	Kafka           KafkaConfig
	Redis           RedisConfig
	Auth            AuthConfig
	TLS             TLSConfig
	Log             LogConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "lmsd")
	v.SetDefault("grpc.port", 9090)
	v.SetDefault("http.port", 8080)
	v.SetDefault("metrics.port", 9100)
	v.SetDefault("shutdown.timeout", 15*time.Second)
	v.SetDefault("otlp.endpoint", "")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "lms")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "lms")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_conns", 20)

	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.consumer_group", "lms-scorer")
	v.SetDefault("kafka.events_topic", "lms.events")
	v.SetDefault("kafka.score_topic", "lms.credit-score.requests")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl", 10*time.Second)

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.public_key_file", "")
	v.SetDefault("auth.issuer", "lms")

	v.SetDefault("tls.cert_file", "")
	v.SetDefault("tls.key_file", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration from defaults, the optional file named by
// LMS_CONFIG_FILE (YAML, JSON or .env) and the environment, in increasing
// order of precedence.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := Config{
		ServiceName:     v.GetString("service.name"),
		GRPCPort:        v.GetInt("grpc.port"),
		HTTPPort:        v.GetInt("http.port"),
		MetricsPort:     v.GetInt("metrics.port"),
		ShutdownTimeout: v.GetDuration("shutdown.timeout"),
		OTLPEndpoint:    v.GetString("otlp.endpoint"),
		DB: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Name:     v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
			MaxConns: v.GetInt32("db.max_conns"),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(v.GetString("kafka.brokers")),
			ConsumerGroup: v.GetString("kafka.consumer_group"),
			EventsTopic:   v.GetString("kafka.events_topic"),
			ScoreTopic:    v.GetString("kafka.score_topic"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			LockTTL:  v.GetDuration("redis.lock_ttl"),
		},
		Auth: AuthConfig{
			Enabled:       v.GetBool("auth.enabled"),
			Secret:        v.GetString("auth.secret"),
			PublicKeyFile: v.GetString("auth.public_key_file"),
			Issuer:        v.GetString("auth.issuer"),
		},
		TLS: TLSConfig{
			CertFile: v.GetString("tls.cert_file"),
			KeyFile:  v.GetString("tls.key_file"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	return cfg, nil
}

// Validate reports every missing or inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("LMS_DB_PASSWORD is required"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("LMS_KAFKA_BROKERS is required"))
	}
	if c.Auth.Enabled && c.Auth.Secret == "" && c.Auth.PublicKeyFile == "" {
		errs = append(errs, errors.New("auth is enabled but neither LMS_AUTH_SECRET nor LMS_AUTH_PUBLIC_KEY_FILE is set"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("LMS_TLS_CERT_FILE and LMS_TLS_KEY_FILE must be set together"))
	}
	if c.Redis.Addr != "" && c.Redis.LockTTL <= 0 {
		errs = append(errs, errors.New("LMS_REDIS_LOCK_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func (c Config) MetricsAddr() string {
	return fmt.Sprintf(":%d", c.MetricsPort)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
