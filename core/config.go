package core

import (
	"fmt"
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage engines
const (
	EngineMemory   = "memory"
	EngineFile     = "file"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
	EngineRedis    = "redis"
	EngineMongo    = "mongo"
)

type (
	Config struct {
		AppName          string
		Build            string
		Env              string
		Debug            bool
		TestMode         bool
		SecretKey        string
		DefaultFromEmail mail.Address
		ContactEmail     mail.Address
		RollbarToken     string
		SendgridApiKey   string
		Log              LogConfig
		Server           ServerConfig
		Storage          StorageConfig
	}

	LogConfig struct {
		Level  string
		Format string // json | console
	}

	ServerConfig struct {
		Host               string
		Address            string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	StorageConfig struct {
		Engine        string
		Path          string // file & sqlite engines
		Database      DatabaseConfig
		RedisAddr     string
		RedisPrefix   string
		MongoURI      string
		MongoDatabase string
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
// Env vars are prefixed by the current environment: eg. `DEV_STORAGE.ENGINE=file`.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "Cyber Security Department")
	v.SetDefault("build", "dev")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("secretKey", "dd8e-qa1z$k3+ve=7xw&uph2(p!y)#*k4(#hb0^$vmr2cyf")
	v.SetDefault("defaultFromEmail", "Cyber Security Department <noreply@localhost>")
	v.SetDefault("contactEmail", "Department Office <info@localhost>")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 24*time.Hour)

	v.SetDefault("storage.engine", EngineFile)
	v.SetDefault("storage.path", "portal.json")
	v.SetDefault("storage.database.engine", "postgres")
	v.SetDefault("storage.database.host", "localhost")
	v.SetDefault("storage.database.port", "5432")
	v.SetDefault("storage.database.name", "deptportal")
	v.SetDefault("storage.database.user", "portal")
	v.SetDefault("storage.database.password", "portal")
	v.SetDefault("storage.database.adminUser", "postgres")
	v.SetDefault("storage.database.adminPassword", "postgres")
	v.SetDefault("storage.database.disableTLS", true)
	v.SetDefault("storage.redisAddr", "localhost:6379")
	v.SetDefault("storage.redisPrefix", "portal:")
	v.SetDefault("storage.mongoURI", "mongodb://localhost:27017")
	v.SetDefault("storage.mongoDatabase", "deptportal")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("storage.engine", EngineMemory)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		SecretKey:        v.GetString("secretKey"),
		DefaultFromEmail: parseAddress(v.GetString("defaultFromEmail")),
		ContactEmail:     parseAddress(v.GetString("contactEmail")),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Address:            v.GetString("server.address"),
			DebugHost:          v.GetString("server.debugHost"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
		},
		Storage: StorageConfig{
			Engine: v.GetString("storage.engine"),
			Path:   v.GetString("storage.path"),
			Database: DatabaseConfig{
				Engine:        v.GetString("storage.database.engine"),
				Host:          v.GetString("storage.database.host"),
				Port:          v.GetString("storage.database.port"),
				Name:          v.GetString("storage.database.name"),
				User:          v.GetString("storage.database.user"),
				Password:      v.GetString("storage.database.password"),
				AdminUser:     v.GetString("storage.database.adminUser"),
				AdminPassword: v.GetString("storage.database.adminPassword"),
				DisableTLS:    v.GetBool("storage.database.disableTLS"),
			},
			RedisAddr:     v.GetString("storage.redisAddr"),
			RedisPrefix:   v.GetString("storage.redisPrefix"),
			MongoURI:      v.GetString("storage.mongoURI"),
			MongoDatabase: v.GetString("storage.mongoDatabase"),
		},
	}
}

// NewTestConfig returns a Config suitable for tests: in-memory storage, no outputs.
func NewTestConfig() *Config {
	return &Config{
		AppName:          "Test Department",
		Build:            "test",
		Env:              "TEST",
		Debug:            false,
		TestMode:         true,
		SecretKey:        "secret",
		DefaultFromEmail: mail.Address{Name: "Test", Address: "noreply@test.test"},
		ContactEmail:     mail.Address{Name: "Office", Address: "office@test.test"},
		Log:              LogConfig{Level: "debug", Format: "console"},
		Server: ServerConfig{
			Host:               "localhost",
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: 10 * time.Minute,
		},
		Storage: StorageConfig{Engine: EngineMemory},
	}
}

func parseAddress(s string) mail.Address {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		log.Fatal(fmt.Sprintf("config: invalid email address %q: %v", s, err))
	}
	return *addr
}
