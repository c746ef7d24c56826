package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App            AppConfig
	DB             DBConfig
	JWT            JWTConfig
	HTTP           HTTPConfig
	Redis          RedisConfig
	BusinessEntity BusinessEntityConfig
	Movement       MovementConfig
	Kafka          KafkaConfig
	Tracing        TracingConfig
	RateLimit      RateLimitConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool // aplica migrations/ embebidas al arrancar
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret string
	Issuer string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig conexión al caché de vistas de inventario. Addr vacío desactiva el caché.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// BusinessEntityConfig cliente del servicio remoto de entidades de negocio.
type BusinessEntityConfig struct {
	BaseURL string
	Timeout time.Duration
	// ValidRetries reintentos para IsValidBusinessEntity (fail-open, tolera latencia extra).
	ValidRetries int
	// ExternalRetries reintentos para IsExternal (fail-closed); solo fallos de transporte.
	ExternalRetries int
}

// MovementConfig parámetros del motor de movimientos.
type MovementConfig struct {
	MaxAttempts int // intentos ante ConcurrencyConflict
}

// KafkaConfig publicación de eventos post-commit. Sin brokers no se publica nada.
type KafkaConfig struct {
	Brokers []string
	Topic   string

	// PublishTimeout tope de cada publicación; la respuesta HTTP espera a lo sumo esto.
	PublishTimeout time.Duration
}

// TracingConfig exportación OTLP/HTTP de trazas. Endpoint vacío usa un tracer noop.
type TracingConfig struct {
	Endpoint string
	Insecure bool
}

// RateLimitConfig límite para rutas de mutación, formato de ulule/limiter (ej. "100-M").
type RateLimitConfig struct {
	Rate string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, REDIS_ADDR, etc.
func Load() (*Config, error) {
	// .env opcional; godotenv no sobreescribe variables ya definidas en el entorno
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "retailpulse-inventory"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "retailpulse_inventory"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			MinConns:    getInt(v, "DB_MIN_CONNS", 2),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", false),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "retailpulse"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
			TTL:      getDuration(v, "REDIS_TTL", 10*time.Minute),
		},
		BusinessEntity: BusinessEntityConfig{
			BaseURL:         getString(v, "BUSINESS_ENTITY_URL", "http://localhost:8085/api/businessEntity"),
			Timeout:         getDuration(v, "BUSINESS_ENTITY_TIMEOUT", 3*time.Second),
			ValidRetries:    getInt(v, "ENTITY_VALID_RETRIES", 3),
			ExternalRetries: getInt(v, "ENTITY_EXTERNAL_RETRIES", 1),
		},
		Movement: MovementConfig{
			MaxAttempts: getInt(v, "MOVEMENT_MAX_ATTEMPTS", 3),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getString(v, "KAFKA_BROKERS", "")),
			Topic:   getString(v, "KAFKA_TOPIC", "inventory.movements"),

			PublishTimeout: getDuration(v, "KAFKA_PUBLISH_TIMEOUT", 2*time.Second),
		},
		Tracing: TracingConfig{
			Endpoint: getString(v, "OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure: getBool(v, "OTEL_EXPORTER_OTLP_INSECURE", true),
		},
		RateLimit: RateLimitConfig{
			Rate: getString(v, "RATE_LIMIT", "300-M"),
		},
	}

	if cfg.Movement.MaxAttempts < 1 {
		return nil, fmt.Errorf("MOVEMENT_MAX_ATTEMPTS debe ser >= 1, recibido %d", cfg.Movement.MaxAttempts)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	d := v.GetDuration(key)
	if d <= 0 {
		return def
	}
	return d
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
