package main

import (
	"log"

	"github.com/assohub/internal/config"
	"github.com/assohub/internal/db"
	"github.com/assohub/internal/router"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 按配置补建超级管理员
	if err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword, db.RoleAdmin); err != nil {
		log.Fatalf("failed to ensure super root user: %v", err)
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(cfg, db.DB)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
