package core

import (
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

type (
	Config struct {
		AppName            string
		Env                string // DEV (local; default), TEST, QA, PROD
		Build              string
		Debug              bool
		TestMode           bool
		SecretKey          string
		FrontendBaseURL    string
		RollbarToken       string
		SendgridApiKey     string
		StudentEmailDomain string
		defaultFromEmail   string

		Admin    AdminConfig
		Registry RegistryConfig
		Storage  StorageConfig
		Server   ServerConfig
		Database DatabaseConfig
	}

	// AdminConfig holds the credentials of the single built-in admin account.
	AdminConfig struct {
		Username string
		Email    string
		Password string
	}

	// RegistryConfig points to the remote student registry. An empty BaseURL disables it.
	RegistryConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	StorageConfig struct {
		Driver     string // memory, bolt, sqlite or postgres
		BoltPath   string
		SQLitePath string
	}

	ServerConfig struct {
		Host                      string
		Address                   string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
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

func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: "noreply@localhost"}
	}
	if addr.Name == "" {
		addr.Name = c.AppName
	}
	return *addr
}

func (d DatabaseConfig) Address() string {
	return net.JoinHostPort(d.Host, d.Port)
}

// NewConfig loads the configuration from the environment, prefixed with the value of ENV.
// A dotenv file at config/.env.<env> is loaded first when present.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "InternTrack")
	conf.SetDefault("build", "develop")
	conf.SetDefault("secretKey", "b7%-k2v@x0q!m4zr+8lw#cj$e1ns(hd5&tyg^6o)pa9uf3")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("defaultFromEmail", "noreply@aastu.edu.et")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("studentEmailDomain", "@aastustudent.edu.et")

	conf.SetDefault("adminUsername", "admin")
	conf.SetDefault("adminEmail", "admin@aastu.edu.et")
	conf.SetDefault("adminPassword", "admin123")

	conf.SetDefault("registryBaseURL", "")
	conf.SetDefault("registryTimeout", 10*time.Second)

	conf.SetDefault("storageDriver", "bolt")
	conf.SetDefault("storageBoltPath", filepath.Join("data", "interntrack.db"))
	conf.SetDefault("storageSQLitePath", filepath.Join("data", "interntrack.sqlite"))

	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverAddress", ":8000")
	conf.SetDefault("serverDebugHost", ":4000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("jwtExpirationDelta", 24*time.Hour)
	conf.SetDefault("jwtRefreshExpirationDelta", 7*24*time.Hour)

	conf.SetDefault("dbEngine", "postgres")
	conf.SetDefault("dbHost", "localhost")
	conf.SetDefault("dbPort", "5432")
	conf.SetDefault("dbName", "interntrack")
	conf.SetDefault("dbUser", "interntrack")
	conf.SetDefault("dbPassword", "")
	conf.SetDefault("dbAdminUser", "postgres")
	conf.SetDefault("dbAdminPassword", "")
	conf.SetDefault("dbDisableTLS", true)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		AppName:            conf.GetString("appName"),
		Env:                env,
		Build:              conf.GetString("build"),
		Debug:              conf.GetBool("debug"),
		TestMode:           conf.GetBool("testMode"),
		SecretKey:          conf.GetString("secretKey"),
		FrontendBaseURL:    conf.GetString("frontendBaseURL"),
		RollbarToken:       conf.GetString("rollbarToken"),
		SendgridApiKey:     conf.GetString("sendgridApiKey"),
		StudentEmailDomain: strings.ToLower(conf.GetString("studentEmailDomain")),
		defaultFromEmail:   conf.GetString("defaultFromEmail"),
		Admin: AdminConfig{
			Username: CleanString(conf.GetString("adminUsername"), true),
			Email:    CleanString(conf.GetString("adminEmail"), true),
			Password: conf.GetString("adminPassword"),
		},
		Registry: RegistryConfig{
			BaseURL: strings.TrimRight(conf.GetString("registryBaseURL"), "/"),
			Timeout: conf.GetDuration("registryTimeout"),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(conf.GetString("storageDriver")),
			BoltPath:   conf.GetString("storageBoltPath"),
			SQLitePath: conf.GetString("storageSQLitePath"),
		},
		Server: ServerConfig{
			Host:                      conf.GetString("serverHost"),
			Address:                   conf.GetString("serverAddress"),
			DebugHost:                 conf.GetString("serverDebugHost"),
			ShutdownTimeout:           conf.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        conf.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("dbEngine"),
			Host:          conf.GetString("dbHost"),
			Port:          conf.GetString("dbPort"),
			Name:          conf.GetString("dbName"),
			User:          conf.GetString("dbUser"),
			Password:      conf.GetString("dbPassword"),
			AdminUser:     conf.GetString("dbAdminUser"),
			AdminPassword: conf.GetString("dbAdminPassword"),
			DisableTLS:    conf.GetBool("dbDisableTLS"),
		},
	}
}

// NewTestConfig returns a Config suited for tests: in-memory storage, no remote registry.
func NewTestConfig() *Config {
	return &Config{
		AppName:            "InternTrack",
		Env:                "TEST",
		Build:              "test",
		TestMode:           true,
		SecretKey:          "test-secret-key",
		FrontendBaseURL:    "http://localhost:3000",
		StudentEmailDomain: "@aastustudent.edu.et",
		defaultFromEmail:   "noreply@aastu.edu.et",
		Admin: AdminConfig{
			Username: "admin",
			Email:    "admin@aastu.edu.et",
			Password: "admin123",
		},
		Registry: RegistryConfig{Timeout: time.Second},
		Storage:  StorageConfig{Driver: "memory"},
		Server: ServerConfig{
			Host:                      "localhost",
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 24 * time.Hour,
		},
	}
}
