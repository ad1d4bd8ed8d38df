package model

import "time"

// ActionType 投稿类型，帖子走 24h 窗口，评论走 1h 窗口
type ActionType string

const (
	ActionPost    ActionType = "post"
	ActionComment ActionType = "comment"
)

// 内容状态：1=待审（对外不可见） 2=已驳回 3=已删除（软删，保留审计）
const (
	ContentPublished = 0
	ContentPending   = 1
	ContentRejected  = 2
	ContentDeleted   = 3
)

type Post struct {
	ID          uint64   `gorm:"primaryKey"`
	AuthorID    uint64   `gorm:"not null;index:idx_author_time"`
	Title       string   `gorm:"size:200;not null"`
	Body        string   `gorm:"type:text"`
	Images      []string `gorm:"type:json;serializer:json"`
	Video       string   `gorm:"size:512"`
	Category    string   `gorm:"size:64"`
	Subcategory string   `gorm:"size:64"`
	Status      int      `gorm:"not null;default:0;index"`
	CreatedAt   time.Time `gorm:"index:idx_author_time"`
	UpdatedAt   time.Time
}

type Comment struct {
	ID        uint64 `gorm:"primaryKey"`
	PostID    uint64 `gorm:"not null;index"`
	AuthorID  uint64 `gorm:"not null;index"`
	Body      string `gorm:"type:text;not null"`
	Status    int    `gorm:"not null;default:0;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
