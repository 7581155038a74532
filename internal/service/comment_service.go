package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/mysite/internal/db"
	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

// CommentService wraps comment related operations.
type CommentService struct {
	db  *gorm.DB
	now func() time.Time
}

// CommentInput represents the fields of the comment form.
type CommentInput struct {
	AuthorName string `validate:"required,max=200"`
	Text       string `validate:"required"`
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb, now: utcNow}
}

// Get fetches a comment by id.
func (s *CommentService) Get(id uint) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// Add 为文章添加一条待审核评论。
func (s *CommentService) Add(postID uint, input CommentInput) (*db.Comment, error) {
	if err := s.ensurePost(postID); err != nil {
		return nil, err
	}

	input.AuthorName = strings.TrimSpace(input.AuthorName)
	input.Text = strings.TrimSpace(input.Text)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	comment := db.Comment{
		PostID:      postID,
		AuthorName:  input.AuthorName,
		Text:        input.Text,
		CreatedDate: s.now(),
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	log.Printf("[comment] added id=%d post=%d", comment.ID, postID)
	return &comment, nil
}

// Approve marks a comment approved and leaves the other fields untouched.
func (s *CommentService) Approve(id uint) (*db.Comment, error) {
	comment, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	comment.Approve()
	if err := s.db.Model(&db.Comment{}).
		Where("id = ?", comment.ID).
		Update("approved", true).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Remove deletes a comment and reports the post it belonged to.
func (s *CommentService) Remove(id uint) (uint, error) {
	comment, err := s.Get(id)
	if err != nil {
		return 0, err
	}

	postID := comment.PostID
	if err := s.db.Delete(&db.Comment{}, comment.ID).Error; err != nil {
		return 0, err
	}

	log.Printf("[comment] removed id=%d post=%d", id, postID)
	return postID, nil
}

// CountForPost 返回文章的评论总数
func (s *CommentService) CountForPost(postID uint) (int64, error) {
	var count int64
	err := s.db.Model(&db.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (s *CommentService) ensurePost(postID uint) error {
	var count int64
	if err := s.db.Model(&db.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrPostNotFound
	}
	return nil
}
