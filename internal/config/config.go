package config

import (
	"fmt"
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
	SuperRootUserName string
	SuperRootPassword string
	SiteBaseURL       string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 存在 .env 文件时优先加载（已设置的环境变量不会被覆盖）。
func Load() AppConfig {
	_ = godotenv.Load()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "assohub.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "assohub-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	siteBaseURL := strings.TrimSpace(os.Getenv("SITE_BASE_URL"))
	if siteBaseURL == "" {
		siteBaseURL = "https://www.assohub.org"
	}

	superRootUserName := strings.TrimSpace(os.Getenv("SUPER_ROOT_USER_NAME"))
	superRootPassword := strings.TrimSpace(os.Getenv("SUPER_ROOT_PASSWORD"))

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabasePath:      databasePath,
		SessionSecret:     sessionSecret,
		GinMode:           ginMode,
		SuperRootUserName: superRootUserName,
		SuperRootPassword: superRootPassword,
		SiteBaseURL:       siteBaseURL,
	}
}
