package service

import (
	"context"
	"encoding/json"

	"Lee_Moderation/internal/model"
	"Lee_Moderation/internal/pkg"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OutboxNotifier 生产用通知出口：先写发件箱落库，再投 kafka，
// 收件人有邮箱且开启 SMTP 时补发一封邮件。投递失败只记日志，
// 不回滚业务（对管线而言通知是 fire-and-forget）。
type OutboxNotifier struct {
	DB       *gorm.DB
	Producer *pkg.NotifyProducer
	Users    UserStore
	SMTP     pkg.SMTPConfig
}

func NewOutboxNotifier(db *gorm.DB, producer *pkg.NotifyProducer, users UserStore, smtp pkg.SMTPConfig) *OutboxNotifier {
	return &OutboxNotifier{DB: db, Producer: producer, Users: users, SMTP: smtp}
}

func (n *OutboxNotifier) Deliver(ctx context.Context, recipientID uint64, audience model.NotifyAudience, subject, body string, metadata map[string]string) error {
	meta, _ := json.Marshal(metadata)
	row := &model.NotificationOutbox{
		RecipientID: recipientID,
		Audience:    audience,
		Subject:     subject,
		Body:        body,
		Metadata:    string(meta),
	}
	if err := n.DB.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}

	status := int8(1)
	if err := n.Producer.Send(ctx, &pkg.NotifyMessage{
		RecipientID: recipientID,
		Audience:    string(audience),
		Subject:     subject,
		Body:        body,
		Metadata:    metadata,
	}); err != nil {
		status = 2
		pkg.L().Error("notify publish failed",
			zap.Uint64("recipient", recipientID), zap.Error(err))
	}
	_ = n.DB.WithContext(ctx).Model(row).Update("status", status).Error

	if n.SMTP.Enabled {
		if user, err := n.Users.FindByID(ctx, recipientID); err == nil && user.Email != "" {
			if err := pkg.SendEmail(n.SMTP, user.Email, subject, pkg.ModerationNoticeHTML(subject, body)); err != nil {
				pkg.L().Warn("notify email failed",
					zap.Uint64("recipient", recipientID), zap.Error(err))
			}
		}
	}

	pkg.MetricNotifications.WithLabelValues(string(audience)).Inc()
	return nil
}
