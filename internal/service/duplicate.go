package service

import (
	"context"
	"strings"
	"time"
)

const (
	// DuplicateThreshold Jaccard 相似度阈值（含）
	DuplicateThreshold = 0.85
	duplicateWindow    = 7 * 24 * time.Hour
)

type DuplicateResult struct {
	Duplicate     bool
	MatchedPostID uint64
	Similarity    float64
}

// DuplicateService 只比对同作者 7 天内的帖子；
// 跨用户抄袭检测明确不在范围内（已知限制）。评论不查重。
type DuplicateService struct {
	content ContentStore
}

func NewDuplicateService(content ContentStore) *DuplicateService {
	return &DuplicateService{content: content}
}

func (s *DuplicateService) Check(ctx context.Context, authorID uint64, text string) (*DuplicateResult, error) {
	candidate := tokenSet(text)
	if len(candidate) == 0 {
		return &DuplicateResult{}, nil
	}

	recent, err := s.content.RecentPostsByAuthor(ctx, authorID, time.Now().Add(-duplicateWindow))
	if err != nil {
		return nil, err
	}

	best := &DuplicateResult{}
	for _, post := range recent {
		sim := jaccard(candidate, tokenSet(post.Title+" "+post.Body))
		if sim > best.Similarity {
			best.Similarity = sim
			best.MatchedPostID = post.ID
		}
	}
	best.Duplicate = best.Similarity >= DuplicateThreshold
	return best, nil
}

// tokenSet 小写、按空白切词后的词集合
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		set[tok] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
