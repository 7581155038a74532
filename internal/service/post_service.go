package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/mysite/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound = errors.New("post not found")
)

// PostService wraps post related database operations.
type PostService struct {
	db  *gorm.DB
	now func() time.Time
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title    string `validate:"required,max=200"`
	Body     string `validate:"required"`
	AuthorID uint
}

// PostDetail 汇总详情页所需的文章与评论。
type PostDetail struct {
	Post     db.Post
	Comments []db.Comment
	Pending  int
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb, now: utcNow}
}

// ListPublished returns posts whose published date has passed, newest first.
func (s *PostService) ListPublished() ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Preload("Author").
		Where("published_date IS NOT NULL AND published_date <= ?", s.now()).
		Order("published_date desc").
		Order("id desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListDrafts returns unpublished posts, oldest first.
func (s *PostService) ListDrafts() ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Preload("Author").
		Where("published_date IS NULL").
		Order("created_date asc").
		Order("id asc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Visible 判断文章当前是否出现在公开列表中
func (s *PostService) Visible(post *db.Post) bool {
	return post.IsPublished(s.now())
}

// Stats 返回已发布与草稿文章数量
func (s *PostService) Stats() (published, drafts int64, err error) {
	if err = s.db.Model(&db.Post{}).
		Where("published_date IS NOT NULL AND published_date <= ?", s.now()).
		Count(&published).Error; err != nil {
		return 0, 0, err
	}
	if err = s.db.Model(&db.Post{}).
		Where("published_date IS NULL").
		Count(&drafts).Error; err != nil {
		return 0, 0, err
	}
	return published, drafts, nil
}

// Get fetches a post by id with its author preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Detail 返回文章及其评论；includePending 为 false 时仅包含已审核评论。
func (s *PostService) Detail(id uint, includePending bool) (*PostDetail, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	var comments []db.Comment
	if err := s.db.Where("post_id = ?", post.ID).
		Order("created_date asc").
		Order("id asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	detail := &PostDetail{Post: *post, Comments: make([]db.Comment, 0, len(comments))}
	for _, comment := range comments {
		if !comment.Approved {
			detail.Pending++
			if !includePending {
				continue
			}
		}
		detail.Comments = append(detail.Comments, comment)
	}
	detail.Post.Comments = detail.Comments
	return detail, nil
}

// Create validates input and persists a new draft post.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	input = normalizePostInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	post := db.Post{
		Title:       input.Title,
		Body:        input.Body,
		AuthorID:    input.AuthorID,
		CreatedDate: s.now(),
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}

	log.Printf("[post] created id=%d author=%d", post.ID, post.AuthorID)
	return &post, nil
}

// Update overwrites title and body; created and published dates are kept.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	input = normalizePostInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if err := s.db.Model(&existing).Updates(map[string]interface{}{
		"title": input.Title,
		"body":  input.Body,
	}).Error; err != nil {
		return nil, err
	}

	existing.Title = input.Title
	existing.Body = input.Body
	return &existing, nil
}

// Delete removes a post together with its comments.
func (s *PostService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post db.Post
		if err := tx.Select("id").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if err := tx.Where("post_id = ?", post.ID).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Post{}, post.ID).Error
	})
	if err != nil {
		return err
	}

	log.Printf("[post] deleted id=%d", id)
	return nil
}

// Publish 将发布时间设置为当前时间，已发布文章会刷新发布时间。
func (s *PostService) Publish(id uint) (*db.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	post.Publish(s.now())
	if err := s.db.Model(&db.Post{}).
		Where("id = ?", post.ID).
		Update("published_date", post.PublishedDate).Error; err != nil {
		return nil, err
	}

	log.Printf("[post] published id=%d at=%s", post.ID, post.PublishedDate.Format(time.RFC3339))
	return post, nil
}

func normalizePostInput(input PostInput) PostInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Body = strings.TrimSpace(input.Body)
	return input
}

// sqlite 以文本比较时间，统一使用 UTC 保证排序正确。
func utcNow() time.Time {
	return time.Now().UTC()
}
