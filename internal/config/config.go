package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabasePath      string
	SessionSecret     string
	GinMode           string
	LoginPath         string
	SiteName          string
	SuperRootUserName string
	SuperRootPassword string
}

// Load 先读取可选的 .env 文件，再从环境变量读取应用配置，并为缺失项提供默认值。
func Load() AppConfig {
	return LoadFrom(".env")
}

// LoadFrom 与 Load 相同，但可以指定 .env 文件位置；文件不存在时忽略。
// 已存在的环境变量优先于文件中的值。
func LoadFrom(envFile string) AppConfig {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[config] failed to read %s: %v", envFile, err)
		}
	}

	port := envOrDefault("PORT", "8080")

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	loginPath := envOrDefault("LOGIN_PATH", "/login")
	if !strings.HasPrefix(loginPath, "/") {
		loginPath = "/" + loginPath
	}

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabasePath:      envOrDefault("DATABASE_PATH", "mysite.db"),
		SessionSecret:     envOrDefault("SESSION_SECRET", "mysite-dev-secret"),
		GinMode:           envOrDefault("GIN_MODE", "release"),
		LoginPath:         loginPath,
		SiteName:          envOrDefault("SITE_NAME", "My Blog"),
		SuperRootUserName: strings.TrimSpace(os.Getenv("SUPER_ROOT_USER_NAME")),
		SuperRootPassword: strings.TrimSpace(os.Getenv("SUPER_ROOT_PASSWORD")),
	}
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
