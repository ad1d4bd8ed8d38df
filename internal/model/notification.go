package model

import "time"

// NotifyAudience 通知受众：举报人与被处理人的文案各自独立，永不合并
type NotifyAudience string

const (
	AudienceReporter NotifyAudience = "reporter"
	AudienceTarget   NotifyAudience = "target"
)

// NotificationOutbox 通知发件箱：先落库再投递 kafka/邮件
type NotificationOutbox struct {
	ID          uint64         `gorm:"primaryKey"`
	RecipientID uint64         `gorm:"not null;index"`
	Audience    NotifyAudience `gorm:"size:16;not null"`
	Subject     string         `gorm:"size:200;not null"`
	Body        string         `gorm:"type:text;not null"`
	Metadata    string         `gorm:"type:json"`
	Status      int8           `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (NotificationOutbox) TableName() string { return "notification_outbox" }
