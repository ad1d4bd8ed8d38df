package service

import (
	"context"

	"Lee_Moderation/internal/model"
	"Lee_Moderation/internal/pkg"

	"go.uber.org/zap"
)

// ViolationService 违规确认与升级。计数与 WarningCount 的一致性、
// 2->3 恰好触发一次的保证都在 ViolationStore 的事务里
type ViolationService struct {
	violations ViolationStore
}

func NewViolationService(violations ViolationStore) *ViolationService {
	return &ViolationService{violations: violations}
}

// RecordConfirmed 每次审核员确认违规调用一次，返回新计数与是否触发自动封禁
func (s *ViolationService) RecordConfirmed(ctx context.Context, userID uint64) (int, bool, error) {
	count, banned, err := s.violations.Increment(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	if banned {
		pkg.MetricEscalations.Inc()
		pkg.L().Warn("auto-ban triggered",
			zap.Uint64("user_id", userID), zap.Int("warning_count", count))
	}
	return count, banned, nil
}

// ShouldAutoBan 只读判定，供外部查询
func (s *ViolationService) ShouldAutoBan(ctx context.Context, userID uint64) (bool, error) {
	count, err := s.violations.Count(ctx, userID)
	if err != nil {
		return false, err
	}
	return count >= model.AutoBanThreshold, nil
}

// Reset 仅管理员清零
func (s *ViolationService) Reset(ctx context.Context, userID uint64) error {
	return s.violations.Reset(ctx, userID)
}
