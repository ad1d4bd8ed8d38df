package service

import (
	"context"
	"errors"
	"testing"

	"Lee_Moderation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueueFixture(t *testing.T) (*QueueService, *fakeQueueStore, *fakeContentStore) {
	t.Helper()
	queueStore := newFakeQueueStore()
	contentStore := newFakeContentStore()
	return NewQueueService(queueStore, contentStore), queueStore, contentStore
}

// enqueuePendingPost 建一条待审帖 + 对应队列条目，返回队列 ID
func enqueuePendingPost(t *testing.T, svc *QueueService, content *fakeContentStore, authorID uint64, reason model.BlockReason, severity model.Severity) uint64 {
	t.Helper()
	ctx := context.Background()
	post := &model.Post{AuthorID: authorID, Title: "t", Body: "b", Status: model.ContentPending}
	require.NoError(t, content.CreatePost(ctx, post))
	item := &model.QueueItem{
		ContentType: model.ActionPost,
		ContentID:   post.ID,
		AuthorID:    authorID,
		BlockReason: reason,
		Severity:    severity,
	}
	require.NoError(t, svc.Enqueue(ctx, item))
	return item.ID
}

func TestEnqueueDefaultsPending(t *testing.T) {
	svc, queueStore, contentStore := newQueueFixture(t)
	id := enqueuePendingPost(t, svc, contentStore, 1, model.ReasonSpam, model.SeverityMedium)

	item, err := queueStore.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.QueuePending, item.Status)
}

func TestReviewApprovePublishesContent(t *testing.T) {
	ctx := context.Background()
	svc, queueStore, contentStore := newQueueFixture(t)
	id := enqueuePendingPost(t, svc, contentStore, 1, model.ReasonProfanity, model.SeverityLow)

	require.NoError(t, svc.Review(ctx, id, 42, true, "false positive"))

	item, err := queueStore.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.QueueApproved, item.Status)
	require.NotNil(t, item.ReviewerID)
	assert.Equal(t, uint64(42), *item.ReviewerID)

	post, err := contentStore.FindPost(ctx, item.ContentID)
	require.NoError(t, err)
	assert.Equal(t, model.ContentPublished, post.Status)
}

func TestReviewRejectKeepsContentHidden(t *testing.T) {
	ctx := context.Background()
	svc, queueStore, contentStore := newQueueFixture(t)
	id := enqueuePendingPost(t, svc, contentStore, 1, model.ReasonSpam, model.SeverityMedium)

	require.NoError(t, svc.Review(ctx, id, 42, false, "confirmed spam"))

	item, err := queueStore.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.QueueRejected, item.Status)

	post, err := contentStore.FindPost(ctx, item.ContentID)
	require.NoError(t, err)
	assert.Equal(t, model.ContentPending, post.Status)
}

func TestReviewTwiceReturnsAlreadyReviewed(t *testing.T) {
	ctx := context.Background()
	svc, _, contentStore := newQueueFixture(t)
	id := enqueuePendingPost(t, svc, contentStore, 1, model.ReasonSpam, model.SeverityMedium)

	require.NoError(t, svc.Review(ctx, id, 42, false, ""))
	err := svc.Review(ctx, id, 43, true, "")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestSubmitAppealEligibility(t *testing.T) {
	ctx := context.Background()
	svc, queueStore, contentStore := newQueueFixture(t)

	t.Run("pending帖子可申诉", func(t *testing.T) {
		id := enqueuePendingPost(t, svc, contentStore, 1, model.ReasonSpam, model.SeverityMedium)
		ok, err := svc.SubmitAppeal(ctx, id, 1, "不是垃圾内容")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejected帖子可申诉", func(t *testing.T) {
		id := enqueuePendingPost(t, svc, contentStore, 1, model.ReasonSpam, model.SeverityMedium)
		require.NoError(t, svc.Review(ctx, id, 42, false, ""))
		ok, err := svc.SubmitAppeal(ctx, id, 1, "请复核")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("approved帖子不可申诉", func(t *testing.T) {
		id := enqueuePendingPost(t, svc, contentStore, 1, model.ReasonSpam, model.SeverityMedium)
		require.NoError(t, svc.Review(ctx, id, 42, true, ""))
		ok, err := svc.SubmitAppeal(ctx, id, 1, "")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("重复申诉不可", func(t *testing.T) {
		id := enqueuePendingPost(t, svc, contentStore, 1, model.ReasonSpam, model.SeverityMedium)
		ok, err := svc.SubmitAppeal(ctx, id, 1, "第一次")
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = svc.SubmitAppeal(ctx, id, 1, "第二次")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("非作者不可申诉", func(t *testing.T) {
		id := enqueuePendingPost(t, svc, contentStore, 1, model.ReasonSpam, model.SeverityMedium)
		ok, err := svc.SubmitAppeal(ctx, id, 2, "")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("评论一律不可申诉", func(t *testing.T) {
		comment := &model.Comment{PostID: 1, AuthorID: 1, Body: "damn", Status: model.ContentPending}
		require.NoError(t, contentStore.CreateComment(ctx, comment))
		item := &model.QueueItem{
			ContentType: model.ActionComment,
			ContentID:   comment.ID,
			AuthorID:    1,
			BlockReason: model.ReasonProfanity,
			Severity:    model.SeverityLow,
		}
		require.NoError(t, svc.Enqueue(ctx, item))

		ok, err := svc.SubmitAppeal(ctx, item.ID, 1, "")
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := queueStore.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, model.QueuePending, got.Status)
	})
}

func TestResolveAppealApprovedPublishes(t *testing.T) {
	ctx := context.Background()
	svc, queueStore, contentStore := newQueueFixture(t)

	// 机审判 spam -> 审核员驳回 -> 作者申诉 -> 复核翻案发布
	id := enqueuePendingPost(t, svc, contentStore, 7, model.ReasonSpam, model.SeverityMedium)
	require.NoError(t, svc.Review(ctx, id, 42, false, "looks like spam"))

	ok, err := svc.SubmitAppeal(ctx, id, 7, "正常交易帖，不是广告")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, svc.ResolveAppeal(ctx, id, 43, true, "复核属实"))

	item, err := queueStore.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.QueueApproved, item.Status)
	assert.Equal(t, model.AppealApproved, item.AppealStatus)

	post, err := contentStore.FindPost(ctx, item.ContentID)
	require.NoError(t, err)
	assert.Equal(t, model.ContentPublished, post.Status)
}

func TestResolveAppealRejected(t *testing.T) {
	ctx := context.Background()
	svc, queueStore, contentStore := newQueueFixture(t)
	id := enqueuePendingPost(t, svc, contentStore, 7, model.ReasonSpam, model.SeverityMedium)

	ok, err := svc.SubmitAppeal(ctx, id, 7, "")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, svc.ResolveAppeal(ctx, id, 43, false, "维持原判"))

	item, err := queueStore.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.QueueRejected, item.Status)
	assert.Equal(t, model.AppealRejected, item.AppealStatus)

	post, err := contentStore.FindPost(ctx, item.ContentID)
	require.NoError(t, err)
	assert.NotEqual(t, model.ContentPublished, post.Status)
}

func TestResolveAppealOnNonAppealedItem(t *testing.T) {
	ctx := context.Background()
	svc, _, contentStore := newQueueFixture(t)
	id := enqueuePendingPost(t, svc, contentStore, 7, model.ReasonSpam, model.SeverityMedium)

	err := svc.ResolveAppeal(ctx, id, 43, true, "")
	assert.ErrorIs(t, err, ErrNotAppealed)
}

func TestReviewApprovePublishFailureSurfaced(t *testing.T) {
	ctx := context.Background()
	svc, queueStore, contentStore := newQueueFixture(t)
	id := enqueuePendingPost(t, svc, contentStore, 1, model.ReasonSpam, model.SeverityMedium)

	// 条目落位后发布失败：错误必须冒出来，不能吞掉
	contentStore.publishErr = errors.New("connection reset")
	err := svc.Review(ctx, id, 42, true, "")
	require.Error(t, err)

	item, err := queueStore.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.QueueApproved, item.Status)
}

func TestQueueStats(t *testing.T) {
	ctx := context.Background()
	svc, _, contentStore := newQueueFixture(t)

	a := enqueuePendingPost(t, svc, contentStore, 1, model.ReasonSpam, model.SeverityMedium)
	b := enqueuePendingPost(t, svc, contentStore, 2, model.ReasonProfanity, model.SeverityLow)
	enqueuePendingPost(t, svc, contentStore, 3, model.ReasonHateSpeech, model.SeverityHigh)

	require.NoError(t, svc.Review(ctx, a, 42, true, ""))
	require.NoError(t, svc.Review(ctx, b, 42, false, ""))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.ByStatus[model.QueuePending])
	assert.Equal(t, int64(1), stats.ByStatus[model.QueueApproved])
	assert.Equal(t, int64(1), stats.ByStatus[model.QueueRejected])
	assert.Equal(t, int64(1), stats.ByReason[model.ReasonHateSpeech])
	assert.InDelta(t, 0.5, stats.ApprovalRate, 0.001)
}
