package config

import (
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Env struct {
	AppAddr string `yaml:"app_addr"`
	GinMode string `yaml:"gin_mode"`

	DBUser string `yaml:"db_user"`
	DBPass string `yaml:"db_pass"`
	DBHost string `yaml:"db_host"`
	DBName string `yaml:"db_name"`

	JWTSecret string `yaml:"jwt_secret"`

	CORSOrigins []string `yaml:"cors_origins"`
}

// LoadEnv builds runtime config. An optional YAML file (OPSBOARD_CONFIG)
// provides defaults; environment variables always win.
func LoadEnv() Env {
	env := Env{
		AppAddr:   ":8080",
		DBUser:    "root",
		DBHost:    "127.0.0.1:3306",
		DBName:    "opsboard",
		JWTSecret: "change-me",
	}

	if path := strings.TrimSpace(os.Getenv("OPSBOARD_CONFIG")); path != "" {
		if err := loadFile(path, &env); err != nil {
			log.Printf("config file %s ignored: %v", path, err)
		}
	}

	overrideString(&env.AppAddr, "APP_ADDR")
	overrideString(&env.GinMode, "GIN_MODE")
	overrideString(&env.DBUser, "DB_USER")
	overrideString(&env.DBPass, "DB_PASS")
	overrideString(&env.DBHost, "DB_HOST")
	overrideString(&env.DBName, "DB_NAME")
	overrideString(&env.JWTSecret, "JWT_SECRET")

	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		env.CORSOrigins = splitList(raw)
	}

	return env
}

func loadFile(path string, env *Env) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, env)
}

func overrideString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
