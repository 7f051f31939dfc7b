package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	Log       LogConfig
	Store     StoreConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Inventory InventoryConfig
	Realtime  RealtimeConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// LogConfig nivel del logger.
type LogConfig struct {
	Level string
}

// Drivers de almacenamiento.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// StoreConfig selecciona el almacenamiento del libro.
type StoreConfig struct {
	Driver string // postgres | memory
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL      string
	Host             string
	Port             int
	User             string
	Password         string
	DBName           string
	SSLMode          string
	MaxConns         int
	TxIsolation      string // read_committed | repeatable_read | serializable
	StatementTimeout time.Duration
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

// JWTConfig configuración de JWT. Secret vacío desactiva la autenticación (solo desarrollo).
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
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

// InventoryConfig políticas del motor de movimientos.
type InventoryConfig struct {
	ExaminationOnEntry bool
	StrictFIFO         bool
}

// RealtimeConfig canal de notificaciones en tiempo real.
type RealtimeConfig struct {
	ClientBuffer int
	Heartbeat    time.Duration // comentario SSE periódico para mantener viva la conexión
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "stock-ledger"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getString(v, "STORE_DRIVER", DriverPostgres)),
		},
		DB: DBConfig{
			DatabaseURL:      getString(v, "DATABASE_URL", ""),
			Host:             getString(v, "DB_HOST", "localhost"),
			Port:             getInt(v, "DB_PORT", 5432),
			User:             getString(v, "DB_USER", "postgres"),
			Password:         getString(v, "DB_PASSWORD", ""),
			DBName:           getString(v, "DB_NAME", "stock_ledger"),
			SSLMode:          getString(v, "DB_SSLMODE", "disable"),
			MaxConns:         getInt(v, "DB_MAX_CONNS", 25),
			TxIsolation:      getString(v, "DB_TX_ISOLATION", "read_committed"),
			StatementTimeout: time.Duration(getInt(v, "DB_STATEMENT_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "stock-ledger"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Inventory: InventoryConfig{
			ExaminationOnEntry: getBool(v, "INVENTORY_EXAMINATION_ON_ENTRY", true),
			StrictFIFO:         getBool(v, "INVENTORY_STRICT_FIFO", false),
		},
		Realtime: RealtimeConfig{
			ClientBuffer: getInt(v, "REALTIME_CLIENT_BUFFER", 16),
			Heartbeat:    time.Duration(getInt(v, "REALTIME_HEARTBEAT_SECONDS", 25)) * time.Second,
		},
	}

	if cfg.Store.Driver != DriverPostgres && cfg.Store.Driver != DriverMemory {
		return nil, fmt.Errorf("config: STORE_DRIVER desconocido %q", cfg.Store.Driver)
	}
	switch cfg.DB.TxIsolation {
	case "read_committed", "repeatable_read", "serializable":
	default:
		return nil, fmt.Errorf("config: DB_TX_ISOLATION desconocido %q", cfg.DB.TxIsolation)
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
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
