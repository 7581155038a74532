package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/mysite/internal/config"
	"github.com/mysite/internal/db"
)

func main() {
	cfg := config.Load()

	username := flag.String("username", "admin", "login name")
	password := flag.String("password", "", "login password")
	databasePath := flag.String("db", cfg.DatabasePath, "sqlite database path")
	flag.Parse()

	if *password == "" {
		log.Fatal("密码不能为空: 使用 -password 指定")
	}

	// 初始化数据库
	if err := db.Init(*databasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	created, err := db.EnsureUserIn(db.DB, *username, *password)
	if err != nil {
		log.Fatal("创建用户失败:", err)
	}
	if !created {
		fmt.Printf("用户 %s 已存在，无需初始化\n", *username)
		return
	}

	fmt.Printf("用户 %s 创建成功\n", *username)
}
