package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string `mapstructure:"http_port"`

	// Relacional: sqlite (por defecto) o pgx
	DBDriver    string `mapstructure:"db_driver"`
	DatabaseURL string `mapstructure:"database_url"`
	SQLitePath  string `mapstructure:"sqlite_path"`

	// Tareas: sql o mongo
	TareaStore string `mapstructure:"tarea_store"`
	MongoURI   string `mapstructure:"mongo_uri"`
	MongoDB    string `mapstructure:"mongo_db"`

	ClickHouseAddr string `mapstructure:"clickhouse_addr"`
	ClickHouseDB   string `mapstructure:"clickhouse_db"`

	RedisAddr string        `mapstructure:"redis_addr"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`

	UseKafka     bool     `mapstructure:"use_kafka"`
	KafkaBrokers []string `mapstructure:"kafka_brokers"`

	OutboxPeriod time.Duration `mapstructure:"outbox_period"`
	OutboxLimit  int           `mapstructure:"outbox_limit"`

	// Sin Redis/Kafka/Mongo: todo en memoria y SQLite
	LocalDeployment bool `mapstructure:"local_deployment"`

	PreferencesPath string `mapstructure:"preferences_path"`

	VencimientosCron string `mapstructure:"vencimientos_cron"`
	VencimientosDias int    `mapstructure:"vencimientos_dias"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

var defaults = map[string]interface{}{
	"http_port":         "8080",
	"db_driver":         "sqlite",
	"database_url":      "",
	"sqlite_path":       "./matafuegos.db",
	"tarea_store":       "sql",
	"mongo_uri":         "mongodb://localhost:27017",
	"mongo_db":          "matafuegos",
	"clickhouse_addr":   "",
	"clickhouse_db":     "default",
	"redis_addr":        "localhost:6379",
	"cache_ttl":         5 * time.Minute,
	"use_kafka":         false,
	"kafka_brokers":     "localhost:9092",
	"outbox_period":     time.Second,
	"outbox_limit":      10,
	"local_deployment":  true,
	"preferences_path":  "./preferences.json",
	"vencimientos_cron": "0 6 * * *",
	"vencimientos_dias": 30,
	"log_level":         "info",
	"log_file":          "",
}

// Load lee .env (si existe), un archivo de configuración opcional y las variables de entorno.
// Las variables de entorno tienen prioridad.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load() // .env es opcional

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv sólo ve las keys conocidas; las registramos explícitamente
	for k := range defaults {
		_ = v.BindEnv(k, strings.ToUpper(k))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.KafkaBrokers = splitList(v.GetString("kafka_brokers"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "pgx":
	default:
		return fmt.Errorf("db_driver inválido: %q (sqlite|pgx)", c.DBDriver)
	}
	if c.DBDriver == "pgx" && c.DatabaseURL == "" {
		return fmt.Errorf("database_url es obligatorio con db_driver=pgx")
	}
	switch c.TareaStore {
	case "sql", "mongo":
	default:
		return fmt.Errorf("tarea_store inválido: %q (sql|mongo)", c.TareaStore)
	}
	if c.OutboxLimit <= 0 {
		return fmt.Errorf("outbox_limit debe ser positivo")
	}
	if c.VencimientosDias < 0 {
		return fmt.Errorf("vencimientos_dias no puede ser negativo")
	}
	return nil
}

// DSN devuelve el data source del driver relacional configurado.
func (c *Config) DSN() string {
	if c.DBDriver == "pgx" {
		return c.DatabaseURL
	}
	return c.SQLitePath
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
