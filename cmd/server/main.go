package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/mysite/internal/config"
	"github.com/mysite/internal/db"
	"github.com/mysite/internal/handler"
	"github.com/mysite/internal/router"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure bootstrap user: %v", err)
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(db.DB, cfg.SessionSecret, handler.Options{
		LoginPath: cfg.LoginPath,
		SiteName:  cfg.SiteName,
	})
	log.Printf("listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
