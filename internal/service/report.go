package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Lee_Moderation/internal/model"
	"Lee_Moderation/internal/pkg"

	"go.uber.org/zap"
)

var (
	ErrReportAlreadyResolved = errors.New("report already resolved")
	ErrBlockRequiresStaff    = errors.New("only moderator or admin can block users")
)

// ReportService 举报处置工作流。举报针对已发布内容，与机审队列条目分属两类对象。
// 所有动作先用条件更新抢占举报（防两个审核员并发双重处置），成功后才施加副作用。
type ReportService struct {
	reports    ReportStore
	content    ContentStore
	queue      QueueStore
	violations ViolationStore
	notify     NotificationSink
}

func NewReportService(reports ReportStore, content ContentStore, queue QueueStore, violations ViolationStore, notify NotificationSink) *ReportService {
	return &ReportService{
		reports:    reports,
		content:    content,
		queue:      queue,
		violations: violations,
		notify:     notify,
	}
}

// FileReport 用户举报入口。同一内容已被核实过的，只累加计数不再新开举报
func (s *ReportService) FileReport(ctx context.Context, reporterID uint64, contentType model.ActionType, targetID uint64, reason model.ReportReason, customReason string) (*model.Report, error) {
	var (
		targetAuthorID uint64
		postID         *uint64
	)
	switch contentType {
	case model.ActionComment:
		comment, err := s.content.FindComment(ctx, targetID)
		if err != nil {
			return nil, err
		}
		targetAuthorID = comment.AuthorID
		pid := comment.PostID
		postID = &pid
	default:
		post, err := s.content.FindPost(ctx, targetID)
		if err != nil {
			return nil, err
		}
		targetAuthorID = post.AuthorID
	}

	// 查询失败必须中止：把存储故障当"没核实过"会重新打扰审核员
	verified, err := s.reports.FindVerifiedByTarget(ctx, contentType, targetID)
	if err != nil {
		return nil, err
	}
	if verified != nil {
		if err := s.reports.IncrementVerifiedCounter(ctx, verified.ID); err != nil {
			return nil, err
		}
		return verified, nil
	}

	report := &model.Report{
		ContentType:    contentType,
		TargetID:       targetID,
		PostID:         postID,
		ReporterID:     reporterID,
		TargetAuthorID: targetAuthorID,
		Reason:         reason,
		CustomReason:   customReason,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) Pending(ctx context.Context) ([]model.Report, error) {
	return s.reports.ListByStatus(ctx, model.ReportPending)
}

// Resolve 审核员处置举报。
// 通知双轨：举报人与被处理人各自独立成文，互相看不到对方的内容，
// 审核员私有备注（note）绝不进入任何通知。
func (s *ReportService) Resolve(ctx context.Context, reportID uint64, moderator *model.User, action model.ReportAction, note, msgToReporter, msgToTarget string) error {
	if action == model.ActionUserBlocked && !moderator.Role.IsStaff() {
		return ErrBlockRequiresStaff
	}

	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return err
	}

	// 先抢占举报：条件更新只允许一次 pending -> resolved/dismissed 生效，
	// 并发的第二次处置在这里就停下，不会重复施加制裁
	affected, err := s.reports.Resolve(ctx, reportID, moderator.ID, action, note)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReportAlreadyResolved
	}

	banned := false
	switch action {
	case model.ActionDismissed, model.ActionVerified:
		// 内容与用户均不动

	case model.ActionUserWarned:
		_, banned, err = s.violations.Increment(ctx, report.TargetAuthorID)
		if err != nil {
			return err
		}

	case model.ActionContentRemoved:
		if err := s.removeContent(ctx, report, moderator, note); err != nil {
			return err
		}
		_, banned, err = s.violations.Increment(ctx, report.TargetAuthorID)
		if err != nil {
			return err
		}

	case model.ActionUserBlocked:
		// 封禁也计一次确认违规，再显式永久封禁（含全量软删级联）
		if _, _, err := s.violations.Increment(ctx, report.TargetAuthorID); err != nil {
			return err
		}
		if err := s.violations.Block(ctx, report.TargetAuthorID, model.BanPermanent); err != nil {
			return err
		}
		banned = true
	}

	if banned {
		pkg.MetricEscalations.Inc()
	}
	s.dispatchNotifications(ctx, report, action, banned, msgToReporter, msgToTarget)

	pkg.L().Info("report resolved",
		zap.Uint64("report_id", reportID),
		zap.Uint64("moderator", moderator.ID),
		zap.String("action", string(action)),
		zap.Bool("auto_banned", banned))
	return nil
}

// removeContent 软删目标内容；帖子同时以 rejected 入审核队列留痕（可申诉），
// 评论只软删（评论不可申诉，不入队）
func (s *ReportService) removeContent(ctx context.Context, report *model.Report, moderator *model.User, note string) error {
	if err := s.content.SoftDelete(ctx, report.ContentType, report.TargetID); err != nil {
		return err
	}
	if report.ContentType != model.ActionPost {
		return nil
	}
	post, err := s.content.FindPost(ctx, report.TargetID)
	if err != nil {
		return err
	}
	now := time.Now()
	return s.queue.Create(ctx, &model.QueueItem{
		ContentType: model.ActionPost,
		ContentID:   post.ID,
		AuthorID:    post.AuthorID,
		Title:       post.Title,
		Body:        post.Body,
		Images:      post.Images,
		Video:       post.Video,
		Category:    post.Category,
		Subcategory: post.Subcategory,
		BlockReason: model.ReasonInappropriate,
		Severity:    model.SeverityMedium,
		Status:      model.QueueRejected,
		ReviewerID:  &moderator.ID,
		ReviewedAt:  &now,
		ReviewNotes: note,
	})
}

// dispatchNotifications 产出一或两份互相独立的通知：
// dismiss/verify 只通知举报人；制裁类动作额外通知被处理人
func (s *ReportService) dispatchNotifications(ctx context.Context, report *model.Report, action model.ReportAction, banned bool, msgToReporter, msgToTarget string) {
	meta := map[string]string{
		"report_id": fmt.Sprintf("%d", report.ID),
		"action":    string(action),
	}

	reporterBody := reporterMessage(action)
	if msgToReporter != "" {
		reporterBody += "\n\n审核员留言：" + msgToReporter
	}
	if err := s.notify.Deliver(ctx, report.ReporterID, model.AudienceReporter, "举报处理结果", reporterBody, meta); err != nil {
		pkg.L().Error("reporter notification failed", zap.Uint64("report_id", report.ID), zap.Error(err))
	}

	if action == model.ActionDismissed || action == model.ActionVerified {
		return
	}

	subject := "内容审核通知"
	targetBody := targetMessage(action, report.ContentType)
	if banned {
		// 封禁走专属文案：账号级申诉通道，与单条内容的审核消息分开
		subject = "账号封禁通知"
		targetBody = "因多次违反社区规范，您的账号已被封禁，相关内容已被移除。如有异议，可联系支持团队提交账号申诉。"
	}
	if msgToTarget != "" {
		targetBody += "\n\n审核员留言：" + msgToTarget
	}
	if err := s.notify.Deliver(ctx, report.TargetAuthorID, model.AudienceTarget, subject, targetBody, meta); err != nil {
		pkg.L().Error("target notification failed", zap.Uint64("report_id", report.ID), zap.Error(err))
	}
}

func reporterMessage(action model.ReportAction) string {
	switch action {
	case model.ActionDismissed:
		return "您的举报经审核未发现违规，已关闭。感谢您帮助维护社区环境。"
	case model.ActionVerified:
		return "您举报的内容经审核确认无违规。感谢您帮助维护社区环境。"
	case model.ActionContentRemoved:
		return "您的举报已处理：相关内容已被移除。感谢您帮助维护社区环境。"
	case model.ActionUserWarned:
		return "您的举报已处理：相关用户已被警告。感谢您帮助维护社区环境。"
	case model.ActionUserBlocked:
		return "您的举报已处理：相关用户已被封禁。感谢您帮助维护社区环境。"
	}
	return "您的举报已处理。"
}

func targetMessage(action model.ReportAction, contentType model.ActionType) string {
	switch action {
	case model.ActionContentRemoved:
		if contentType == model.ActionPost {
			return "您发布的内容因违反社区规范已被移除，并记一次警告。如有异议可对该内容提交申诉。"
		}
		// 评论不可申诉，不提供申诉入口文案
		return "您发布的评论因违反社区规范已被移除，并记一次警告。"
	case model.ActionUserWarned:
		return "您的行为违反社区规范，已记一次警告。累计三次警告将导致账号封禁。"
	case model.ActionUserBlocked:
		return "因严重违反社区规范，您的账号已被封禁，全部内容已被移除。"
	}
	return "您的内容收到一次审核处理。"
}
