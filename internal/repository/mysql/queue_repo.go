package mysql

import (
	"context"
	"errors"
	"time"

	"Lee_Moderation/internal/model"

	"gorm.io/gorm"
)

var ErrQueueItemNotFound = errors.New("queue item not found")

type QueueRepository struct {
	DB *gorm.DB
}

func (r *QueueRepository) Create(ctx context.Context, item *model.QueueItem) error {
	// 机审入队默认 pending；举报处置产生的条目会带着 rejected 进来（可申诉的删帖留痕）
	if item.Status == "" {
		item.Status = model.QueuePending
	}
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *QueueRepository) FindByID(ctx context.Context, id uint64) (*model.QueueItem, error) {
	var item model.QueueItem
	err := r.DB.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQueueItemNotFound
	}
	return &item, err
}

func (r *QueueRepository) ListByStatus(ctx context.Context, status model.QueueStatus) ([]model.QueueItem, error) {
	var list []model.QueueItem
	err := r.DB.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *QueueRepository) History(ctx context.Context, limit int) ([]model.QueueItem, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var list []model.QueueItem
	err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// Review 一步完成 pending -> approved/rejected；两个审核员并发处理同一条时，
// 条件更新保证只有一次生效，第二次 affected=0
func (r *QueueRepository) Review(ctx context.Context, id, reviewerID uint64, to model.QueueStatus, notes string) (int64, error) {
	now := time.Now()
	tx := r.DB.WithContext(ctx).Model(&model.QueueItem{}).
		Where("id = ? AND status = ?", id, model.QueuePending).
		Updates(map[string]any{
			"status":       to,
			"reviewer_id":  reviewerID,
			"reviewed_at":  now,
			"review_notes": notes,
		})
	return tx.RowsAffected, tx.Error
}

// Appeal 仅帖子、且当前为 pending/rejected 时可申诉；条件写在 WHERE 里，
// 不满足时 affected=0，调用方据此向用户返回失败而不是报错
func (r *QueueRepository) Appeal(ctx context.Context, id uint64, reason string) (int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.QueueItem{}).
		Where("id = ? AND content_type = ? AND status IN ?",
			id, model.ActionPost, []model.QueueStatus{model.QueuePending, model.QueueRejected}).
		Updates(map[string]any{
			"status":        model.QueueAppealed,
			"appeal_reason": reason,
			"appeal_status": model.AppealPending,
		})
	return tx.RowsAffected, tx.Error
}

// ResolveAppeal 仅 appealed 状态可终结，status 与 appeal_status 同步落位
func (r *QueueRepository) ResolveAppeal(ctx context.Context, id, reviewerID uint64, approved bool, notes string) (int64, error) {
	to := model.QueueRejected
	appealTo := model.AppealRejected
	if approved {
		to = model.QueueApproved
		appealTo = model.AppealApproved
	}
	now := time.Now()
	tx := r.DB.WithContext(ctx).Model(&model.QueueItem{}).
		Where("id = ? AND status = ?", id, model.QueueAppealed).
		Updates(map[string]any{
			"status":        to,
			"appeal_status": appealTo,
			"reviewer_id":   reviewerID,
			"reviewed_at":   now,
			"review_notes":  notes,
		})
	return tx.RowsAffected, tx.Error
}

type statusCount struct {
	Key   string
	Count int64
}

// Stats 按状态/原因/严重度聚合
func (r *QueueRepository) Stats(ctx context.Context) (*model.QueueStats, error) {
	stats := &model.QueueStats{
		ByStatus:   make(map[model.QueueStatus]int64),
		ByReason:   make(map[model.BlockReason]int64),
		BySeverity: make(map[model.Severity]int64),
	}

	var rows []statusCount
	if err := r.DB.WithContext(ctx).Model(&model.QueueItem{}).
		Select("status AS `key`, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[model.QueueStatus(row.Key)] = row.Count
		stats.Total += row.Count
	}

	rows = rows[:0]
	if err := r.DB.WithContext(ctx).Model(&model.QueueItem{}).
		Select("block_reason AS `key`, COUNT(*) AS count").Group("block_reason").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByReason[model.BlockReason(row.Key)] = row.Count
	}

	rows = rows[:0]
	if err := r.DB.WithContext(ctx).Model(&model.QueueItem{}).
		Select("severity AS `key`, COUNT(*) AS count").Group("severity").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.BySeverity[model.Severity(row.Key)] = row.Count
	}

	reviewed := stats.ByStatus[model.QueueApproved] + stats.ByStatus[model.QueueRejected]
	if reviewed > 0 {
		stats.ApprovalRate = float64(stats.ByStatus[model.QueueApproved]) / float64(reviewed)
	}
	return stats, nil
}
