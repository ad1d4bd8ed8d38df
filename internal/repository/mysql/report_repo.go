package mysql

import (
	"context"
	"errors"
	"time"

	"Lee_Moderation/internal/model"

	"gorm.io/gorm"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepository struct {
	DB *gorm.DB
}

func (r *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	report.Status = model.ReportPending
	return r.DB.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) FindByID(ctx context.Context, id uint64) (*model.Report, error) {
	var report model.Report
	err := r.DB.WithContext(ctx).First(&report, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	return &report, err
}

func (r *ReportRepository) ListByStatus(ctx context.Context, status model.ReportStatus) ([]model.Report, error) {
	var list []model.Report
	err := r.DB.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// FindVerifiedByTarget 同一内容已被核实时，新举报走计数而不是新开一条。
// 未找到返回 (nil, nil)，错误只留给真正的存储故障，调用方必须中止而不是开新单
func (r *ReportRepository) FindVerifiedByTarget(ctx context.Context, contentType model.ActionType, targetID uint64) (*model.Report, error) {
	var report model.Report
	err := r.DB.WithContext(ctx).
		Where("content_type = ? AND target_id = ? AND is_content_verified = ?", contentType, targetID, true).
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) IncrementVerifiedCounter(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.Report{}).
		Where("id = ?", id).
		UpdateColumn("new_reports_after_verification", gorm.Expr("new_reports_after_verification + 1")).Error
}

// Resolve 一步完成 pending -> resolved/dismissed；并发处理同一条举报时只有一次生效
func (r *ReportRepository) Resolve(ctx context.Context, id, resolverID uint64, action model.ReportAction, note string) (int64, error) {
	to := model.ReportResolved
	if action == model.ActionDismissed {
		to = model.ReportDismissed
	}
	values := map[string]any{
		"status":         to,
		"action_taken":   action,
		"moderator_note": note,
		"resolved_by":    resolverID,
		"resolved_at":    time.Now(),
	}
	if action == model.ActionVerified {
		values["is_content_verified"] = true
	}
	tx := r.DB.WithContext(ctx).Model(&model.Report{}).
		Where("id = ? AND status = ?", id, model.ReportPending).
		Updates(values)
	return tx.RowsAffected, tx.Error
}
