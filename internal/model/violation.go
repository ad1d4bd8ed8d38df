package model

import "time"

// AutoBanThreshold 警告数达到该值即自动封禁
const AutoBanThreshold = 3

// Violation 每用户一行的违规计数，只增不减，仅管理员可显式清零。
// User.WarningCount 是它的镜像，必须同事务更新。
type Violation struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"uniqueIndex;not null"`
	Count     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
