package db

import "time"

// Post 定义了文章模型。PublishedDate 为空表示草稿。
type Post struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	Title         string     `gorm:"size:200;not null" json:"title"`
	Body          string     `gorm:"type:text;not null" json:"body"`
	AuthorID      uint       `gorm:"index;not null" json:"author_id"`
	Author        User       `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedDate   time.Time  `gorm:"not null;index" json:"created_date"`
	PublishedDate *time.Time `gorm:"index" json:"published_date"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Comments      []Comment  `gorm:"constraint:OnDelete:CASCADE;" json:"comments,omitempty"`
}

// IsPublished 判断文章在 now 时刻是否对外可见。
func (p *Post) IsPublished(now time.Time) bool {
	return p.PublishedDate != nil && !p.PublishedDate.After(now)
}

// IsDraft 判断文章是否仍为草稿
func (p *Post) IsDraft() bool {
	return p.PublishedDate == nil
}

// Publish 将发布时间设置为 now，重复调用只会刷新时间。
func (p *Post) Publish(now time.Time) {
	published := now
	p.PublishedDate = &published
}
