package service

import (
	"context"
	"math"
	"time"

	"Lee_Moderation/internal/model"
)

// RatePolicy 档位×动作的限额：Limit=0 表示不限量，Cooldown=0 表示无冷却
type RatePolicy struct {
	Limit    int
	Window   time.Duration
	Cooldown time.Duration
}

var ratePolicies = map[TrustTier]map[model.ActionType]RatePolicy{
	TierNew: {
		model.ActionPost:    {Limit: 3, Window: 24 * time.Hour, Cooldown: 10 * time.Minute},
		model.ActionComment: {Limit: 10, Window: time.Hour, Cooldown: 2 * time.Minute},
	},
	TierRegular: {
		model.ActionPost:    {Limit: 10, Window: 24 * time.Hour, Cooldown: 5 * time.Minute},
		model.ActionComment: {Limit: 30, Window: time.Hour, Cooldown: 30 * time.Second},
	},
	TierTrusted: {
		model.ActionPost:    {Limit: 50, Window: 24 * time.Hour, Cooldown: 0},
		model.ActionComment: {Limit: 0, Window: time.Hour, Cooldown: 0},
	},
}

// AdmitResult 放行/拒绝都带精确数字，拒绝时告知确切等待或配额
type AdmitResult struct {
	Allowed           bool
	RetryAfterSeconds int
	QuotaUsed         int
	QuotaLimit        int
}

type RateLimitService struct {
	activity ActivityStore
}

func NewRateLimitService(activity ActivityStore) *RateLimitService {
	return &RateLimitService{activity: activity}
}

// Admit 只判定不记账；调用方放行后需自行调 Record，
// 这样 UI 提示类调用可以只查不扣
func (s *RateLimitService) Admit(ctx context.Context, user *model.User, action model.ActionType) (*AdmitResult, error) {
	now := time.Now()
	p := ratePolicies[Tier(user, now)][action]

	// 1. 冷却：距上次同类动作不足冷却期，拒绝并给出剩余秒数
	if p.Cooldown > 0 {
		last, ok, err := s.activity.LastAction(ctx, user.ID, action)
		if err != nil {
			return nil, err
		}
		if ok {
			if elapsed := now.Sub(last); elapsed < p.Cooldown {
				return &AdmitResult{
					Allowed:           false,
					RetryAfterSeconds: int(math.Ceil((p.Cooldown - elapsed).Seconds())),
					QuotaLimit:        p.Limit,
				}, nil
			}
		}
	}

	// 2. 滑动窗口配额
	used, err := s.activity.CountSince(ctx, user.ID, action, now.Add(-p.Window))
	if err != nil {
		return nil, err
	}
	if p.Limit > 0 && used >= p.Limit {
		return &AdmitResult{Allowed: false, QuotaUsed: used, QuotaLimit: p.Limit}, nil
	}

	return &AdmitResult{Allowed: true, QuotaUsed: used, QuotaLimit: p.Limit}, nil
}

// Record 放行后记一笔活动账
func (s *RateLimitService) Record(ctx context.Context, user *model.User, action model.ActionType) error {
	return s.activity.Record(ctx, user.ID, action, time.Now())
}
