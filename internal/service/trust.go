package service

import (
	"time"

	"Lee_Moderation/internal/model"
)

// TrustTier 信任档位，只由账号年龄和角色决定
type TrustTier string

const (
	TierNew     TrustTier = "new"
	TierRegular TrustTier = "regular"
	TierTrusted TrustTier = "trusted"
)

const (
	trustedAccountAge = 30 * 24 * time.Hour
	newAccountAge     = 7 * 24 * time.Hour
)

// Tier 纯函数，无副作用
func Tier(user *model.User, now time.Time) TrustTier {
	age := now.Sub(user.CreatedAt)
	if age >= trustedAccountAge || user.Role.IsPrivileged() {
		return TierTrusted
	}
	if age < newAccountAge {
		return TierNew
	}
	return TierRegular
}
