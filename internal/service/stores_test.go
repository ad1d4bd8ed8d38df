package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"Lee_Moderation/internal/model"
)

// 测试用的内存假存储，语义与 mysql 实现对齐：
// 条件转移返回生效行数，0 表示前置状态不满足。

var errNotFound = errors.New("not found")

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uint64]*model.User
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uint64]*model.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByID(_ context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeContentStore struct {
	mu         sync.Mutex
	nextID     uint64
	posts      map[uint64]*model.Post
	comments   map[uint64]*model.Comment
	publishErr error
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{
		posts:    make(map[uint64]*model.Post),
		comments: make(map[uint64]*model.Comment),
	}
}

func (s *fakeContentStore) CreatePost(_ context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	post.ID = s.nextID
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	cp := *post
	s.posts[post.ID] = &cp
	return nil
}

func (s *fakeContentStore) CreateComment(_ context.Context, comment *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	comment.ID = s.nextID
	cp := *comment
	s.comments[comment.ID] = &cp
	return nil
}

func (s *fakeContentStore) FindPost(_ context.Context, id uint64) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeContentStore) FindComment(_ context.Context, id uint64) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *c
	return &cp, nil
}

// Publish 与 mysql 版同语义：待审或已移除均放行（申诉翻案恢复被删帖）
func (s *fakeContentStore) Publish(_ context.Context, contentType model.ActionType, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.publishErr != nil {
		return s.publishErr
	}
	publishable := func(status int) bool {
		return status == model.ContentPending || status == model.ContentDeleted
	}
	if contentType == model.ActionComment {
		if c, ok := s.comments[id]; ok && publishable(c.Status) {
			c.Status = model.ContentPublished
		}
		return nil
	}
	if p, ok := s.posts[id]; ok && publishable(p.Status) {
		p.Status = model.ContentPublished
	}
	return nil
}

func (s *fakeContentStore) SoftDelete(_ context.Context, contentType model.ActionType, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if contentType == model.ActionComment {
		if c, ok := s.comments[id]; ok {
			c.Status = model.ContentDeleted
		}
		return nil
	}
	if p, ok := s.posts[id]; ok {
		p.Status = model.ContentDeleted
	}
	return nil
}

func (s *fakeContentStore) RecentPostsByAuthor(_ context.Context, authorID uint64, since time.Time) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.Post
	for _, p := range s.posts {
		if p.AuthorID == authorID && p.Status != model.ContentDeleted && !p.CreatedAt.Before(since) {
			list = append(list, *p)
		}
	}
	return list, nil
}

// deleteAllByAuthor 封禁级联里由 violation 假存储调用
func (s *fakeContentStore) deleteAllByAuthor(authorID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			p.Status = model.ContentDeleted
		}
	}
	for _, c := range s.comments {
		if c.AuthorID == authorID {
			c.Status = model.ContentDeleted
		}
	}
}

type fakeQueueStore struct {
	mu     sync.Mutex
	nextID uint64
	items  map[uint64]*model.QueueItem
}

func newFakeQueueStore() *fakeQueueStore {
	return &fakeQueueStore{items: make(map[uint64]*model.QueueItem)}
}

func (s *fakeQueueStore) Create(_ context.Context, item *model.QueueItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	item.ID = s.nextID
	if item.Status == "" {
		item.Status = model.QueuePending
	}
	item.CreatedAt = time.Now()
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *fakeQueueStore) FindByID(_ context.Context, id uint64) (*model.QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *item
	return &cp, nil
}

func (s *fakeQueueStore) ListByStatus(_ context.Context, status model.QueueStatus) ([]model.QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.QueueItem
	for _, item := range s.items {
		if item.Status == status {
			list = append(list, *item)
		}
	}
	return list, nil
}

func (s *fakeQueueStore) History(_ context.Context, _ int) ([]model.QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.QueueItem
	for _, item := range s.items {
		list = append(list, *item)
	}
	return list, nil
}

func (s *fakeQueueStore) Review(_ context.Context, id, reviewerID uint64, to model.QueueStatus, notes string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || item.Status != model.QueuePending {
		return 0, nil
	}
	now := time.Now()
	item.Status = to
	item.ReviewerID = &reviewerID
	item.ReviewedAt = &now
	item.ReviewNotes = notes
	return 1, nil
}

func (s *fakeQueueStore) Appeal(_ context.Context, id uint64, reason string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || item.ContentType != model.ActionPost {
		return 0, nil
	}
	if item.Status != model.QueuePending && item.Status != model.QueueRejected {
		return 0, nil
	}
	item.Status = model.QueueAppealed
	item.AppealReason = reason
	item.AppealStatus = model.AppealPending
	return 1, nil
}

func (s *fakeQueueStore) ResolveAppeal(_ context.Context, id, reviewerID uint64, approved bool, notes string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || item.Status != model.QueueAppealed {
		return 0, nil
	}
	now := time.Now()
	if approved {
		item.Status = model.QueueApproved
		item.AppealStatus = model.AppealApproved
	} else {
		item.Status = model.QueueRejected
		item.AppealStatus = model.AppealRejected
	}
	item.ReviewerID = &reviewerID
	item.ReviewedAt = &now
	item.ReviewNotes = notes
	return 1, nil
}

func (s *fakeQueueStore) Stats(_ context.Context) (*model.QueueStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &model.QueueStats{
		ByStatus:   make(map[model.QueueStatus]int64),
		ByReason:   make(map[model.BlockReason]int64),
		BySeverity: make(map[model.Severity]int64),
	}
	for _, item := range s.items {
		stats.Total++
		stats.ByStatus[item.Status]++
		stats.ByReason[item.BlockReason]++
		stats.BySeverity[item.Severity]++
	}
	reviewed := stats.ByStatus[model.QueueApproved] + stats.ByStatus[model.QueueRejected]
	if reviewed > 0 {
		stats.ApprovalRate = float64(stats.ByStatus[model.QueueApproved]) / float64(reviewed)
	}
	return stats, nil
}

type fakeReportStore struct {
	mu              sync.Mutex
	nextID          uint64
	reports         map[uint64]*model.Report
	findVerifiedErr error
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: make(map[uint64]*model.Report)}
}

func (s *fakeReportStore) Create(_ context.Context, report *model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	report.ID = s.nextID
	report.Status = model.ReportPending
	cp := *report
	s.reports[report.ID] = &cp
	return nil
}

func (s *fakeReportStore) FindByID(_ context.Context, id uint64) (*model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *fakeReportStore) ListByStatus(_ context.Context, status model.ReportStatus) ([]model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.Report
	for _, r := range s.reports {
		if r.Status == status {
			list = append(list, *r)
		}
	}
	return list, nil
}

func (s *fakeReportStore) FindVerifiedByTarget(_ context.Context, contentType model.ActionType, targetID uint64) (*model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findVerifiedErr != nil {
		return nil, s.findVerifiedErr
	}
	for _, r := range s.reports {
		if r.ContentType == contentType && r.TargetID == targetID && r.IsContentVerified {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeReportStore) IncrementVerifiedCounter(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reports[id]; ok {
		r.NewReportsAfterVerification++
	}
	return nil
}

func (s *fakeReportStore) Resolve(_ context.Context, id, resolverID uint64, action model.ReportAction, note string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok || r.Status != model.ReportPending {
		return 0, nil
	}
	if action == model.ActionDismissed {
		r.Status = model.ReportDismissed
	} else {
		r.Status = model.ReportResolved
	}
	if action == model.ActionVerified {
		r.IsContentVerified = true
	}
	now := time.Now()
	r.ActionTaken = action
	r.ModeratorNote = note
	r.ResolvedBy = &resolverID
	r.ResolvedAt = &now
	return 1, nil
}

// fakeViolationStore 与 mysql 版同语义：计数+镜像同"事务"，阈值级联封禁
type fakeViolationStore struct {
	mu      sync.Mutex
	counts  map[uint64]int
	users   *fakeUserStore
	content *fakeContentStore
}

func newFakeViolationStore(users *fakeUserStore, content *fakeContentStore) *fakeViolationStore {
	return &fakeViolationStore{
		counts:  make(map[uint64]int),
		users:   users,
		content: content,
	}
}

func (s *fakeViolationStore) seed(userID uint64, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[userID] = count
	s.users.mu.Lock()
	if u, ok := s.users.users[userID]; ok {
		u.WarningCount = count
	}
	s.users.mu.Unlock()
}

func (s *fakeViolationStore) Increment(_ context.Context, userID uint64) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[userID]++
	count := s.counts[userID]

	s.users.mu.Lock()
	u, ok := s.users.users[userID]
	if !ok {
		s.users.mu.Unlock()
		return 0, false, errNotFound
	}
	u.WarningCount = count
	banned := false
	if count >= model.AutoBanThreshold && !u.IsBlocked {
		banned = true
		u.IsBlocked = true
		u.BanDuration = model.BanPermanent
	}
	s.users.mu.Unlock()

	if banned && s.content != nil {
		s.content.deleteAllByAuthor(userID)
	}
	return count, banned, nil
}

func (s *fakeViolationStore) Block(_ context.Context, userID uint64, duration model.BanDuration) error {
	s.users.mu.Lock()
	if u, ok := s.users.users[userID]; ok {
		u.IsBlocked = true
		u.BanDuration = duration
	}
	s.users.mu.Unlock()
	if s.content != nil {
		s.content.deleteAllByAuthor(userID)
	}
	return nil
}

func (s *fakeViolationStore) Count(_ context.Context, userID uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[userID], nil
}

func (s *fakeViolationStore) Reset(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[userID] = 0
	s.users.mu.Lock()
	if u, ok := s.users.users[userID]; ok {
		u.WarningCount = 0
	}
	s.users.mu.Unlock()
	return nil
}

type delivery struct {
	RecipientID uint64
	Audience    model.NotifyAudience
	Subject     string
	Body        string
	Metadata    map[string]string
}

type fakeNotifier struct {
	mu         sync.Mutex
	deliveries []delivery
}

func (n *fakeNotifier) Deliver(_ context.Context, recipientID uint64, audience model.NotifyAudience, subject, body string, metadata map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deliveries = append(n.deliveries, delivery{
		RecipientID: recipientID,
		Audience:    audience,
		Subject:     subject,
		Body:        body,
		Metadata:    metadata,
	})
	return nil
}

func (n *fakeNotifier) byAudience(audience model.NotifyAudience) []delivery {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []delivery
	for _, d := range n.deliveries {
		if d.Audience == audience {
			out = append(out, d)
		}
	}
	return out
}

type fakeLocker struct {
	busy bool
}

func (l *fakeLocker) Acquire(_ context.Context, _ uint64) (string, bool, error) {
	if l.busy {
		return "", false, nil
	}
	return "token", true, nil
}

func (l *fakeLocker) Release(_ context.Context, _ uint64, _ string) error { return nil }

type fakeScanner struct {
	mu      sync.Mutex
	calls   int
	verdict *MediaVerdict
	err     error
}

func (s *fakeScanner) scan() (*MediaVerdict, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.verdict != nil {
		return s.verdict, nil
	}
	return &MediaVerdict{Safe: true}, nil
}

func (s *fakeScanner) ScanImage(_ context.Context, _ string) (*MediaVerdict, error) {
	return s.scan()
}

func (s *fakeScanner) ScanVideo(_ context.Context, _ string) (*MediaVerdict, error) {
	return s.scan()
}

func (s *fakeScanner) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
