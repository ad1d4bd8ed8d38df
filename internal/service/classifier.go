package service

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"Lee_Moderation/internal/model"
	"Lee_Moderation/internal/pkg"

	"go.uber.org/zap"
)

// Verdict 文本/媒体审核结论；Clean=false 时进入审核队列而不是直接拒绝
type Verdict struct {
	Clean        bool
	Reason       model.BlockReason
	Severity     model.Severity
	MatchedTerms []string
}

func cleanVerdict() *Verdict { return &Verdict{Clean: true} }

// 词表刻意保持简陋：接口契约稳定，后续可整体换成统计/ML 分类器
var profanityTerms = []string{
	"damn", "crap", "wtf", "stfu", "moron", "idiot", "dumbass",
	"jackass", "bastard", "scumbag", "loser trash", "garbage human",
}

var hateTerms = []string{
	"kill yourself", "kys", "go die", "you should die",
	"subhuman", "vermin people", "exterminate them",
	"nobody would miss you", "end your life",
}

var spamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(viagra|cialis|xanax|oxycontin)\b`),
	regexp.MustCompile(`(?i)click here now`),
	regexp.MustCompile(`[$¥€]{2,}`),
	regexp.MustCompile(`(?i)(crypto|bitcoin|forex)[^.]{0,40}(profit|investment|returns|double)`),
	regexp.MustCompile(`(?i)(guaranteed|instant)\s+(income|cash|money)`),
}

// ClassifierService 规则/关键词审核器。文本最便宜先查，图片并行查，
// 视频最后；一旦命中立即短路返回
type ClassifierService struct {
	media       MediaScanner
	scanTimeout time.Duration
}

func NewClassifierService(media MediaScanner, scanTimeout time.Duration) *ClassifierService {
	if scanTimeout <= 0 {
		scanTimeout = 3 * time.Second
	}
	return &ClassifierService{media: media, scanTimeout: scanTimeout}
}

func (s *ClassifierService) Classify(ctx context.Context, text string, images []string, video string) *Verdict {
	if v := classifyText(text); !v.Clean {
		return v
	}
	if len(images) > 0 {
		if v := s.scanImages(ctx, images); !v.Clean {
			return v
		}
	}
	if video != "" {
		if v := s.scanOne(ctx, s.media.ScanVideo, video); !v.Clean {
			return v
		}
	}
	return cleanVerdict()
}

// classifyText 小写子串匹配 + 垃圾正则。
// 仇恨/自残词表恒为 high；脏话按命中数升级；垃圾模式恒为 medium。
func classifyText(text string) *Verdict {
	if text == "" {
		return cleanVerdict()
	}
	lower := strings.ToLower(text)

	var hateMatched []string
	for _, term := range hateTerms {
		if strings.Contains(lower, term) {
			hateMatched = append(hateMatched, term)
		}
	}
	if len(hateMatched) > 0 {
		return &Verdict{
			Reason:       model.ReasonHateSpeech,
			Severity:     model.SeverityHigh,
			MatchedTerms: hateMatched,
		}
	}

	var profMatched []string
	for _, term := range profanityTerms {
		if strings.Contains(lower, term) {
			profMatched = append(profMatched, term)
		}
	}
	if n := len(profMatched); n > 0 {
		severity := model.SeverityLow
		switch {
		case n >= 4:
			severity = model.SeverityHigh
		case n >= 2:
			severity = model.SeverityMedium
		}
		return &Verdict{
			Reason:       model.ReasonProfanity,
			Severity:     severity,
			MatchedTerms: profMatched,
		}
	}

	var spamMatched []string
	for _, re := range spamPatterns {
		if m := re.FindString(lower); m != "" {
			spamMatched = append(spamMatched, m)
		}
	}
	if len(spamMatched) > 0 {
		return &Verdict{
			Reason:       model.ReasonSpam,
			Severity:     model.SeverityMedium,
			MatchedTerms: spamMatched,
		}
	}

	return cleanVerdict()
}

// scanImages 多图并行送检，任一不安全即整体不通过
func (s *ClassifierService) scanImages(ctx context.Context, images []string) *Verdict {
	verdicts := make([]*Verdict, len(images))
	var wg sync.WaitGroup
	for i, url := range images {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			verdicts[i] = s.scanOne(ctx, s.media.ScanImage, url)
		}(i, url)
	}
	wg.Wait()

	for _, v := range verdicts {
		if !v.Clean {
			return v
		}
	}
	return cleanVerdict()
}

// scanOne 外部扫描失败必须 fail closed：按不通过处理、转人工复核，
// 绝不能把未检内容放出去
func (s *ClassifierService) scanOne(ctx context.Context, scan func(context.Context, string) (*MediaVerdict, error), url string) *Verdict {
	sctx, cancel := context.WithTimeout(ctx, s.scanTimeout)
	defer cancel()

	mv, err := scan(sctx, url)
	if err != nil {
		pkg.L().Warn("media scan unavailable, failing closed",
			zap.String("url", url), zap.Error(err))
		return &Verdict{
			Reason:   model.ReasonInappropriate,
			Severity: model.SeverityMedium,
		}
	}
	if mv.Safe {
		return cleanVerdict()
	}
	// 阈值判定是外部服务的职责，这里默认按 high 入队
	return &Verdict{
		Reason:       model.ReasonInappropriate,
		Severity:     model.SeverityHigh,
		MatchedTerms: []string{mv.Label},
	}
}
