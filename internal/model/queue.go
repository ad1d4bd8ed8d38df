package model

import "time"

// BlockReason 机器审核命中的违规类别
type BlockReason string

const (
	ReasonProfanity     BlockReason = "profanity"
	ReasonHateSpeech    BlockReason = "hate-speech"
	ReasonSpam          BlockReason = "spam"
	ReasonInappropriate BlockReason = "inappropriate-content"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// QueueStatus 审核队列状态机：pending -> approved/rejected；
// 仅帖子可从 pending/rejected 进入 appealed，再终结为 approved/rejected
type QueueStatus string

const (
	QueuePending  QueueStatus = "pending"
	QueueApproved QueueStatus = "approved"
	QueueRejected QueueStatus = "rejected"
	QueueAppealed QueueStatus = "appealed"
)

type AppealStatus string

const (
	AppealPending  AppealStatus = "pending"
	AppealApproved AppealStatus = "approved"
	AppealRejected AppealStatus = "rejected"
)

// QueueItem 只由分类器管线创建，永不删除（审计留痕）
type QueueItem struct {
	ID          uint64     `gorm:"primaryKey"`
	ContentType ActionType `gorm:"size:8;not null;index"`
	// ContentID 指向隐藏中的 Post/Comment 行，approve 时据此放行发布
	ContentID   uint64   `gorm:"not null;index"`
	AuthorID    uint64   `gorm:"not null;index"`
	Title       string   `gorm:"size:200"`
	Body        string   `gorm:"type:text"`
	Images      []string `gorm:"type:json;serializer:json"`
	Video       string   `gorm:"size:512"`
	Category    string   `gorm:"size:64"`
	Subcategory string   `gorm:"size:64"`

	BlockReason BlockReason `gorm:"size:32;not null"`
	Severity    Severity    `gorm:"size:8;not null"`
	// MatchedTerms 只展示给审核员，绝不回传给作者
	MatchedTerms []string `gorm:"type:json;serializer:json"`

	Status      QueueStatus `gorm:"size:16;not null;default:'pending';index"`
	ReviewerID  *uint64
	ReviewedAt  *time.Time
	ReviewNotes string `gorm:"type:text"`

	AppealReason string       `gorm:"type:text"`
	AppealStatus AppealStatus `gorm:"size:16"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (QueueItem) TableName() string { return "moderation_queue" }

// QueueStats 审核统计，approval rate 作为误报率的近似指标
type QueueStats struct {
	Total        int64                 `json:"total"`
	ByStatus     map[QueueStatus]int64 `json:"by_status"`
	ByReason     map[BlockReason]int64 `json:"by_reason"`
	BySeverity   map[Severity]int64    `json:"by_severity"`
	ApprovalRate float64               `json:"approval_rate"`
}
