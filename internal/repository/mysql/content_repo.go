package mysql

import (
	"context"
	"errors"
	"time"

	"Lee_Moderation/internal/model"

	"gorm.io/gorm"
)

var ErrContentNotFound = errors.New("content not found")

type ContentRepository struct {
	DB *gorm.DB
}

func (r *ContentRepository) CreatePost(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

func (r *ContentRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	return r.DB.WithContext(ctx).Create(comment).Error
}

func (r *ContentRepository) FindPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContentNotFound
	}
	return &post, err
}

func (r *ContentRepository) FindComment(ctx context.Context, id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.WithContext(ctx).First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContentNotFound
	}
	return &comment, err
}

// Publish 放行发布：待审与已移除状态均可放行，条件更新保证幂等。
// 已移除也放行是申诉通道的要求：被举报删除的帖子申诉翻案后必须恢复可见
func (r *ContentRepository) Publish(ctx context.Context, contentType model.ActionType, id uint64) error {
	tx := r.model(ctx, contentType).
		Where("id = ? AND status IN ?", id, []int{model.ContentPending, model.ContentDeleted}).
		Update("status", model.ContentPublished)
	return tx.Error
}

// SoftDelete 软删除：保留行，仅改状态（审计留痕，可恢复）
func (r *ContentRepository) SoftDelete(ctx context.Context, contentType model.ActionType, id uint64) error {
	return r.model(ctx, contentType).
		Where("id = ? AND status <> ?", id, model.ContentDeleted).
		Update("status", model.ContentDeleted).Error
}

// RecentPostsByAuthor 查重用：作者近期未删除的帖子
func (r *ContentRepository) RecentPostsByAuthor(ctx context.Context, authorID uint64, since time.Time) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.WithContext(ctx).
		Where("author_id = ? AND status <> ? AND created_at >= ?", authorID, model.ContentDeleted, since).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *ContentRepository) model(ctx context.Context, contentType model.ActionType) *gorm.DB {
	db := r.DB.WithContext(ctx)
	if contentType == model.ActionComment {
		return db.Model(&model.Comment{})
	}
	return db.Model(&model.Post{})
}
