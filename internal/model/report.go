package model

import "time"

// ReportReason 用户举报时选择的理由
type ReportReason string

const (
	ReportSpam           ReportReason = "spam"
	ReportHarassment     ReportReason = "harassment"
	ReportInappropriate  ReportReason = "inappropriate"
	ReportMisinformation ReportReason = "misinformation"
	ReportOther          ReportReason = "other"
)

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

// ReportAction 审核员处理举报时采取的动作
type ReportAction string

const (
	ActionContentRemoved ReportAction = "content_removed"
	ActionUserWarned     ReportAction = "user_warned"
	ActionUserBlocked    ReportAction = "user_blocked"
	ActionDismissed      ReportAction = "dismissed"
	ActionVerified       ReportAction = "verified"
)

// Report 针对已发布内容的同侪举报，与机审队列条目是两类对象，永不删除
type Report struct {
	ID          uint64     `gorm:"primaryKey"`
	ContentType ActionType `gorm:"size:8;not null"`
	TargetID    uint64     `gorm:"not null;index:idx_target"`
	// PostID 评论举报时回链到所在帖子
	PostID         *uint64
	ReporterID     uint64       `gorm:"not null;index"`
	TargetAuthorID uint64       `gorm:"not null;index"`
	Reason         ReportReason `gorm:"size:16;not null"`
	CustomReason   string       `gorm:"size:500"`
	Status         ReportStatus `gorm:"size:16;not null;default:'pending';index"`
	// ModeratorNote 审核员私有备注，任何通知都不携带
	ModeratorNote string       `gorm:"type:text"`
	ActionTaken   ReportAction `gorm:"size:16"`

	IsContentVerified bool `gorm:"not null;default:false"`
	// NewReportsAfterVerification 内容被核实后，后续举报只累加此计数，不再打扰审核员
	NewReportsAfterVerification int `gorm:"not null;default:0"`

	ResolvedBy *uint64
	ResolvedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
