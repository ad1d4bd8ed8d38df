package model

import "time"

// Role 账号系统维护的角色，审核管线只读取
type Role string

const (
	RoleMember    Role = "member"
	RoleVet       Role = "vet"
	RoleTrainer   Role = "trainer"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// IsStaff 是否有审核权限
func (r Role) IsStaff() bool {
	return r == RoleModerator || r == RoleAdmin
}

// IsPrivileged 特权角色直接视为 trusted 档
func (r Role) IsPrivileged() bool {
	switch r {
	case RoleVet, RoleTrainer, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type BanDuration string

const (
	BanOneDay    BanDuration = "1d"
	BanSevenDays BanDuration = "7d"
	BanThirtyDay BanDuration = "30d"
	BanPermanent BanDuration = "permanent"
)

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:32;not null"`
	Email     string `gorm:"uniqueIndex;size:64;not null"`
	Role      Role   `gorm:"size:16;not null;default:'member'"`
	// WarningCount 是 violations 表计数的对外镜像，二者在同一事务内更新
	WarningCount int         `gorm:"not null;default:0"`
	IsBlocked    bool        `gorm:"not null;default:false"`
	BanDuration  BanDuration `gorm:"size:16"`
	BlockedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
