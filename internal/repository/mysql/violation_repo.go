package mysql

import (
	"context"
	"errors"
	"time"

	"Lee_Moderation/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ViolationRepository struct {
	DB *gorm.DB
}

// Increment 确认一次违规：锁 user 行后，violations 计数与 User.WarningCount
// 在同一事务内 +1。达到阈值时在同一事务内完成封禁级联：置 is_blocked、
// 软删该用户全部帖子与评论。并发确认同一用户时行锁保证 2->3 恰好触发一次。
func (r *ViolationRepository) Increment(ctx context.Context, userID uint64) (newCount int, banned bool, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var v model.Violation
		err := tx.Where("user_id = ?", userID).First(&v).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			v = model.Violation{UserID: userID}
			if err := tx.Create(&v).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		v.Count++
		newCount = v.Count
		if err := tx.Model(&model.Violation{}).Where("id = ?", v.ID).
			Update("count", v.Count).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.User{}).Where("id = ?", userID).
			Update("warning_count", v.Count).Error; err != nil {
			return err
		}

		if v.Count >= model.AutoBanThreshold && !user.IsBlocked {
			banned = true
			if err := blockInTx(tx, userID, model.BanPermanent); err != nil {
				return err
			}
		}
		return nil
	})
	return newCount, banned, err
}

// Block 显式封禁（Block User 动作）：置永久封禁并软删全部内容
func (r *ViolationRepository) Block(ctx context.Context, userID uint64, duration model.BanDuration) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return blockInTx(tx, userID, duration)
	})
}

func blockInTx(tx *gorm.DB, userID uint64, duration model.BanDuration) error {
	now := time.Now()
	if err := tx.Model(&model.User{}).Where("id = ?", userID).
		Updates(map[string]any{
			"is_blocked":   true,
			"ban_duration": duration,
			"blocked_at":   now,
		}).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.Post{}).
		Where("author_id = ? AND status <> ?", userID, model.ContentDeleted).
		Update("status", model.ContentDeleted).Error; err != nil {
		return err
	}
	return tx.Model(&model.Comment{}).
		Where("author_id = ? AND status <> ?", userID, model.ContentDeleted).
		Update("status", model.ContentDeleted).Error
}

func (r *ViolationRepository) Count(ctx context.Context, userID uint64) (int, error) {
	var v model.Violation
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return v.Count, err
}

// Reset 仅管理员显式清零
func (r *ViolationRepository) Reset(ctx context.Context, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Violation{}).Where("user_id = ?", userID).
			Update("count", 0).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id = ?", userID).
			Update("warning_count", 0).Error
	})
}
