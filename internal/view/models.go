package view

import (
	"html/template"

	"github.com/mysite/internal/db"
)

// PostListPage 用于首页与草稿列表
type PostListPage struct {
	Heading    string
	Posts      []db.Post
	Drafts     bool
	Published  int64
	DraftCount int64
}

// PostDetailPage 详情页数据；Comments 是否包含待审核评论由调用方决定
type PostDetailPage struct {
	Post      db.Post
	BodyHTML  template.HTML
	Comments  []db.Comment
	Pending   int
	Published bool
	CanManage bool
}

// PostFormPage 文章创建与编辑表单
type PostFormPage struct {
	Heading string
	Action  string
	PostID  uint
	Title   string
	Body    string
	Errors  map[string]string
}

// CommentFormPage 评论表单
type CommentFormPage struct {
	Post       db.Post
	Action     string
	AuthorName string
	Text       string
	Errors     map[string]string
}

// ConfirmPage 删除确认页
type ConfirmPage struct {
	Post   db.Post
	Action string
}

// HasErrors 供模板判断是否存在字段错误
func (p PostFormPage) HasErrors() bool {
	return len(p.Errors) > 0
}

// HasErrors 供模板判断是否存在字段错误
func (p CommentFormPage) HasErrors() bool {
	return len(p.Errors) > 0
}
