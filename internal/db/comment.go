package db

import "time"

// Comment 定义了评论模型，归属于一篇文章
type Comment struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	PostID      uint      `gorm:"index;not null" json:"post_id"`
	AuthorName  string    `gorm:"size:200;not null" json:"author_name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CreatedDate time.Time `gorm:"not null" json:"created_date"`
	Approved    bool      `gorm:"not null;default:false" json:"approved"`
}

// Approve 将评论标记为审核通过
func (c *Comment) Approve() {
	c.Approved = true
}
