package core

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

type (
	Config struct {
		Env          string // DEV (local; default), TEST, QA, PROD
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		SecretKey    string
		RollbarToken string
		Database     DatabaseConfig
		Server       ServerConfig
		Pagination   PaginationConfig
	}

	DatabaseConfig struct {
		Engine        string // postgres | sqlite
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Path          string // sqlite file
	}

	ServerConfig struct {
		Host                      string
		Port                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	PaginationConfig struct {
		PageSize    int
		MaxPageSize int
	}
)

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, dc.Port)
}

func (sc ServerConfig) Address() string {
	return net.JoinHostPort(sc.Host, sc.Port)
}

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
// Environment variables are prefixed with the current env, e.g. `DEV_DATABASE_ENGINE`.
func NewConfig() *Config {
	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v := newViper(env)
	return &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			Path:          v.GetString("database.path"),
		},
		Server: ServerConfig{
			Host:                      v.GetString("server.host"),
			Port:                      v.GetString("server.port"),
			DebugHost:                 v.GetString("server.debugHost"),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
		},
		Pagination: PaginationConfig{
			PageSize:    v.GetInt("pagination.pageSize"),
			MaxPageSize: v.GetInt("pagination.maxPageSize"),
		},
	}
}

func newViper(env string) *viper.Viper {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("appName", "SchoolAdmin")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("database.engine", EnginePostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "schooladmin")
	v.SetDefault("database.user", "schooladmin")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.path", "schooladmin.db")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.debugHost", "0.0.0.0:4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("pagination.pageSize", 15)
	v.SetDefault("pagination.maxPageSize", 100)

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// String hides secrets so the config can be logged on start up.
func (c Config) String() string {
	return fmt.Sprintf("env=%s debug=%t db=%s@%s/%s", c.Env, c.Debug, c.Database.Engine, c.Database.Address(), c.Database.Name)
}
