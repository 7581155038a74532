package main

import (
	"fmt"
	"log"

	"github.com/mysite/internal/config"
	"github.com/mysite/internal/db"
	"github.com/mysite/internal/service"
	"gorm.io/gorm"
)

type seedPost struct {
	Title    string
	Body     string
	Publish  bool
	Comments []seedComment
}

type seedComment struct {
	Author   string
	Text     string
	Approved bool
}

var seedPosts = []seedPost{
	{
		Title:   "Hello, world",
		Body:    "# Hello\n\nThe first post on this blog.",
		Publish: true,
		Comments: []seedComment{
			{Author: "reader", Text: "Welcome!", Approved: true},
			{Author: "visitor", Text: "Looking forward to more."},
		},
	},
	{
		Title:   "Writing with Markdown",
		Body:    "Posts support **Markdown**, including tables and `code`.\n\n| a | b |\n|---|---|\n| 1 | 2 |",
		Publish: true,
		Comments: []seedComment{
			{Author: "reader", Text: "Tables render nicely.", Approved: true},
		},
	},
	{
		Title: "Unfinished thoughts",
		Body:  "This one is still a draft.",
	},
}

// 测试数据生成器
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	author, err := seedAuthor(db.DB, "admin", "admin123")
	if err != nil {
		log.Fatal("创建用户失败:", err)
	}

	created, err := seed(db.DB, author.ID)
	if err != nil {
		log.Fatal("创建文章失败:", err)
	}

	fmt.Println("测试数据生成完成！")
	fmt.Println("用户: admin (密码: admin123)")
	fmt.Printf("文章: %d篇\n", created)
}

func seedAuthor(gdb *gorm.DB, username, password string) (*db.User, error) {
	if _, err := db.EnsureUserIn(gdb, username, password); err != nil {
		return nil, err
	}
	var user db.User
	if err := gdb.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// seed 只在文章表为空时写入示例数据，返回新建文章数。
func seed(gdb *gorm.DB, authorID uint) (int, error) {
	var count int64
	if err := gdb.Model(&db.Post{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		fmt.Println("文章已存在，跳过创建")
		return 0, nil
	}

	posts := service.NewPostService(gdb)
	comments := service.NewCommentService(gdb)

	for _, item := range seedPosts {
		post, err := posts.Create(service.PostInput{Title: item.Title, Body: item.Body, AuthorID: authorID})
		if err != nil {
			return 0, err
		}
		if item.Publish {
			if _, err := posts.Publish(post.ID); err != nil {
				return 0, err
			}
		}
		for _, sc := range item.Comments {
			comment, err := comments.Add(post.ID, service.CommentInput{AuthorName: sc.Author, Text: sc.Text})
			if err != nil {
				return 0, err
			}
			if sc.Approved {
				if _, err := comments.Approve(comment.ID); err != nil {
					return 0, err
				}
			}
		}
	}

	return len(seedPosts), nil
}
