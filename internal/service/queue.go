package service

import (
	"context"
	"errors"

	"Lee_Moderation/internal/model"
	"Lee_Moderation/internal/pkg"

	"go.uber.org/zap"
)

var (
	ErrAlreadyReviewed   = errors.New("already reviewed")
	ErrAppealNotPossible = errors.New("appeal not possible")
	ErrNotAppealed       = errors.New("item is not under appeal")
)

// QueueService 审核队列状态机的服务层封装。
// 状态转移的原子性靠存储层的条件更新兜底，这里负责副作用（发布放行）与指标。
type QueueService struct {
	queue   QueueStore
	content ContentStore
}

func NewQueueService(queue QueueStore, content ContentStore) *QueueService {
	return &QueueService{queue: queue, content: content}
}

// Enqueue 分类器判不干净时入队，始终从 pending 起步，内容对外不可见
func (s *QueueService) Enqueue(ctx context.Context, item *model.QueueItem) error {
	if err := s.queue.Create(ctx, item); err != nil {
		return err
	}
	pkg.MetricQueueTransitions.WithLabelValues(string(model.QueuePending)).Inc()
	pkg.MetricVerdicts.WithLabelValues(string(item.BlockReason), string(item.Severity)).Inc()
	return nil
}

// Review pending -> approved/rejected。approve 是发布放行信号；
// 第二个审核员并发处理同一条时返回 ErrAlreadyReviewed，不会二次发布
func (s *QueueService) Review(ctx context.Context, id, reviewerID uint64, approve bool, notes string) error {
	to := model.QueueRejected
	if approve {
		to = model.QueueApproved
	}
	affected, err := s.queue.Review(ctx, id, reviewerID, to, notes)
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := s.queue.FindByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyReviewed
	}

	if approve {
		if err := s.publishApproved(ctx, id); err != nil {
			return err
		}
	}

	pkg.MetricQueueTransitions.WithLabelValues(string(to)).Inc()
	pkg.L().Info("queue item reviewed",
		zap.Uint64("queue_id", id), zap.Uint64("reviewer", reviewerID), zap.Bool("approved", approve))
	return nil
}

// SubmitAppeal 仅帖子、且 pending/rejected 可申诉；评论一律不可申诉。
// 不满足条件时返回 false 而不是错误，调用方向用户展示友好的拒绝
func (s *QueueService) SubmitAppeal(ctx context.Context, id, authorID uint64, reason string) (bool, error) {
	item, err := s.queue.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if item.AuthorID != authorID {
		return false, nil
	}
	affected, err := s.queue.Appeal(ctx, id, reason)
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}
	pkg.MetricQueueTransitions.WithLabelValues(string(model.QueueAppealed)).Inc()
	return true, nil
}

// ResolveAppeal 仅 appealed 可终结；status 与 appealStatus 同步落位
func (s *QueueService) ResolveAppeal(ctx context.Context, id, reviewerID uint64, approved bool, notes string) error {
	affected, err := s.queue.ResolveAppeal(ctx, id, reviewerID, approved, notes)
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := s.queue.FindByID(ctx, id); err != nil {
			return err
		}
		return ErrNotAppealed
	}

	if approved {
		if err := s.publishApproved(ctx, id); err != nil {
			return err
		}
	}

	to := model.QueueRejected
	if approved {
		to = model.QueueApproved
	}
	pkg.MetricQueueTransitions.WithLabelValues(string(to)).Inc()
	return nil
}

// publishApproved 条目已落位 approved 后放行内容发布。
// 此处失败意味着条目与内容状态不一致，必须显式报错留痕，等运维补发布
func (s *QueueService) publishApproved(ctx context.Context, id uint64) error {
	item, err := s.queue.FindByID(ctx, id)
	if err == nil {
		err = s.content.Publish(ctx, item.ContentType, item.ContentID)
	}
	if err != nil {
		pkg.L().Error("approved queue item left unpublished",
			zap.Uint64("queue_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *QueueService) Pending(ctx context.Context) ([]model.QueueItem, error) {
	return s.queue.ListByStatus(ctx, model.QueuePending)
}

func (s *QueueService) Appealed(ctx context.Context) ([]model.QueueItem, error) {
	return s.queue.ListByStatus(ctx, model.QueueAppealed)
}

func (s *QueueService) History(ctx context.Context, limit int) ([]model.QueueItem, error) {
	return s.queue.History(ctx, limit)
}

func (s *QueueService) Stats(ctx context.Context) (*model.QueueStats, error) {
	return s.queue.Stats(ctx)
}
