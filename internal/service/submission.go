package service

import (
	"context"
	"fmt"

	"Lee_Moderation/internal/model"
	"Lee_Moderation/internal/pkg"

	"go.uber.org/zap"
)

type SubmitStatus string

const (
	SubmitPublished SubmitStatus = "published"
	SubmitQueued    SubmitStatus = "queued"
	SubmitDenied    SubmitStatus = "denied"
)

// SubmitOutcome 投稿结果三态：直接发布 / 转人工审核 / 拒绝。
// 拒绝时带精确的等待秒数或配额数字；转审只暴露违规类别，
// 命中词表只留给审核员看。
type SubmitOutcome struct {
	Status            SubmitStatus      `json:"status"`
	ContentID         uint64            `json:"content_id,omitempty"`
	QueueID           uint64            `json:"queue_id,omitempty"`
	Reason            model.BlockReason `json:"reason,omitempty"`
	DenyReason        string            `json:"deny_reason,omitempty"`
	RetryAfterSeconds int               `json:"retry_after_seconds,omitempty"`
	QuotaUsed         int               `json:"quota_used,omitempty"`
	QuotaLimit        int               `json:"quota_limit,omitempty"`
}

type PostDraft struct {
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Images      []string `json:"images"`
	Video       string   `json:"video"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
}

type CommentDraft struct {
	PostID uint64 `json:"post_id"`
	Body   string `json:"body"`
}

// SubmissionService 投稿管线：限流（快速拒）-> 查重（快速拒）-> 内容审核。
// 整条管线持有每用户锁，封住限流检查与记账之间的并发窗口。
type SubmissionService struct {
	users      UserStore
	locker     UserLocker
	rate       *RateLimitService
	duplicate  *DuplicateService
	classifier *ClassifierService
	content    ContentStore
	queue      *QueueService
}

func NewSubmissionService(users UserStore, locker UserLocker, rate *RateLimitService, duplicate *DuplicateService, classifier *ClassifierService, content ContentStore, queue *QueueService) *SubmissionService {
	return &SubmissionService{
		users:      users,
		locker:     locker,
		rate:       rate,
		duplicate:  duplicate,
		classifier: classifier,
		content:    content,
		queue:      queue,
	}
}

func (s *SubmissionService) SubmitPost(ctx context.Context, userID uint64, draft *PostDraft) (*SubmitOutcome, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsBlocked {
		return deny("account blocked"), nil
	}

	token, ok, err := s.locker.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return deny("another submission in progress, retry shortly"), nil
	}
	defer func() { _ = s.locker.Release(ctx, userID, token) }()

	admit, err := s.rate.Admit(ctx, user, model.ActionPost)
	if err != nil {
		return nil, err
	}
	if !admit.Allowed {
		return denyRateLimited(admit, model.ActionPost), nil
	}

	dup, err := s.duplicate.Check(ctx, userID, draft.Title+" "+draft.Body)
	if err != nil {
		return nil, err
	}
	if dup.Duplicate {
		out := deny(fmt.Sprintf("near-duplicate of your recent post (similarity %.2f), please revise", dup.Similarity))
		pkg.MetricSubmissions.WithLabelValues(string(model.ActionPost), string(SubmitDenied)).Inc()
		return out, nil
	}

	verdict := s.classifier.Classify(ctx, draft.Title+" "+draft.Body, draft.Images, draft.Video)

	post := &model.Post{
		AuthorID:    userID,
		Title:       draft.Title,
		Body:        draft.Body,
		Images:      draft.Images,
		Video:       draft.Video,
		Category:    draft.Category,
		Subcategory: draft.Subcategory,
		Status:      model.ContentPublished,
	}
	if !verdict.Clean {
		post.Status = model.ContentPending
	}
	if err := s.content.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	// 投稿无论放行还是转审都记活动账，避免靠刷违规内容绕过限流；
	// 违规计数则只在审核员确认后才动
	if err := s.rate.Record(ctx, user, model.ActionPost); err != nil {
		return nil, err
	}

	if verdict.Clean {
		pkg.MetricSubmissions.WithLabelValues(string(model.ActionPost), string(SubmitPublished)).Inc()
		return &SubmitOutcome{Status: SubmitPublished, ContentID: post.ID}, nil
	}

	item := &model.QueueItem{
		ContentType:  model.ActionPost,
		ContentID:    post.ID,
		AuthorID:     userID,
		Title:        draft.Title,
		Body:         draft.Body,
		Images:       draft.Images,
		Video:        draft.Video,
		Category:     draft.Category,
		Subcategory:  draft.Subcategory,
		BlockReason:  verdict.Reason,
		Severity:     verdict.Severity,
		MatchedTerms: verdict.MatchedTerms,
	}
	if err := s.queue.Enqueue(ctx, item); err != nil {
		return nil, err
	}
	pkg.MetricSubmissions.WithLabelValues(string(model.ActionPost), string(SubmitQueued)).Inc()
	pkg.L().Info("post queued for review",
		zap.Uint64("author", userID),
		zap.String("reason", string(verdict.Reason)),
		zap.String("severity", string(verdict.Severity)))
	return &SubmitOutcome{Status: SubmitQueued, QueueID: item.ID, Reason: verdict.Reason}, nil
}

func (s *SubmissionService) SubmitComment(ctx context.Context, userID uint64, draft *CommentDraft) (*SubmitOutcome, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsBlocked {
		return deny("account blocked"), nil
	}

	token, ok, err := s.locker.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return deny("another submission in progress, retry shortly"), nil
	}
	defer func() { _ = s.locker.Release(ctx, userID, token) }()

	admit, err := s.rate.Admit(ctx, user, model.ActionComment)
	if err != nil {
		return nil, err
	}
	if !admit.Allowed {
		return denyRateLimited(admit, model.ActionComment), nil
	}

	// 评论不查重，直接进内容审核
	verdict := s.classifier.Classify(ctx, draft.Body, nil, "")

	comment := &model.Comment{
		PostID:   draft.PostID,
		AuthorID: userID,
		Body:     draft.Body,
		Status:   model.ContentPublished,
	}
	if !verdict.Clean {
		comment.Status = model.ContentPending
	}
	if err := s.content.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.rate.Record(ctx, user, model.ActionComment); err != nil {
		return nil, err
	}

	if verdict.Clean {
		pkg.MetricSubmissions.WithLabelValues(string(model.ActionComment), string(SubmitPublished)).Inc()
		return &SubmitOutcome{Status: SubmitPublished, ContentID: comment.ID}, nil
	}

	item := &model.QueueItem{
		ContentType:  model.ActionComment,
		ContentID:    comment.ID,
		AuthorID:     userID,
		Body:         draft.Body,
		BlockReason:  verdict.Reason,
		Severity:     verdict.Severity,
		MatchedTerms: verdict.MatchedTerms,
	}
	if err := s.queue.Enqueue(ctx, item); err != nil {
		return nil, err
	}
	pkg.MetricSubmissions.WithLabelValues(string(model.ActionComment), string(SubmitQueued)).Inc()
	return &SubmitOutcome{Status: SubmitQueued, QueueID: item.ID, Reason: verdict.Reason}, nil
}

func deny(reason string) *SubmitOutcome {
	return &SubmitOutcome{Status: SubmitDenied, DenyReason: reason}
}

func denyRateLimited(admit *AdmitResult, action model.ActionType) *SubmitOutcome {
	out := &SubmitOutcome{
		Status:            SubmitDenied,
		RetryAfterSeconds: admit.RetryAfterSeconds,
		QuotaUsed:         admit.QuotaUsed,
		QuotaLimit:        admit.QuotaLimit,
	}
	if admit.RetryAfterSeconds > 0 {
		out.DenyReason = fmt.Sprintf("cooldown active, retry in %d seconds", admit.RetryAfterSeconds)
	} else {
		out.DenyReason = fmt.Sprintf("%s quota reached (%d/%d in window)", action, admit.QuotaUsed, admit.QuotaLimit)
	}
	pkg.MetricSubmissions.WithLabelValues(string(action), string(SubmitDenied)).Inc()
	return out
}
