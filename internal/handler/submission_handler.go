package handler

import (
	"net/http"

	"Lee_Moderation/internal/middleware"
	"Lee_Moderation/internal/service"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	svc *service.SubmissionService
}

func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// SubmitPost 发帖接口：published / queued / denied 三态
func (h *SubmissionHandler) SubmitPost(c *gin.Context) {
	userIDAny, _ := c.Get(middleware.ContextUserIDKey)
	userID := userIDAny.(uint64)

	var draft service.PostDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if draft.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "title required"})
		return
	}

	out, err := h.svc.SubmitPost(c.Request.Context(), userID, &draft)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "submit failed"})
		return
	}
	writeOutcome(c, out)
}

// SubmitComment 发评论接口
func (h *SubmissionHandler) SubmitComment(c *gin.Context) {
	userIDAny, _ := c.Get(middleware.ContextUserIDKey)
	userID := userIDAny.(uint64)

	var draft service.CommentDraft
	if err := c.ShouldBindJSON(&draft); err != nil || draft.PostID == 0 || draft.Body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	out, err := h.svc.SubmitComment(c.Request.Context(), userID, &draft)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "submit failed"})
		return
	}
	writeOutcome(c, out)
}

func writeOutcome(c *gin.Context, out *service.SubmitOutcome) {
	switch out.Status {
	case service.SubmitPublished:
		c.JSON(http.StatusOK, gin.H{"status": out.Status, "content_id": out.ContentID})
	case service.SubmitQueued:
		// 对用户只说"待审核"与类别，不暴露命中词表
		c.JSON(http.StatusAccepted, gin.H{
			"status":   out.Status,
			"queue_id": out.QueueID,
			"reason":   out.Reason,
			"msg":      "content pending review",
		})
	default:
		resp := gin.H{"status": out.Status, "msg": out.DenyReason}
		code := http.StatusForbidden
		if out.RetryAfterSeconds > 0 || out.QuotaLimit > 0 {
			// 限流类拒绝，带精确等待/配额数字
			code = http.StatusTooManyRequests
			if out.RetryAfterSeconds > 0 {
				resp["retry_after_seconds"] = out.RetryAfterSeconds
			}
			if out.QuotaLimit > 0 {
				resp["quota_used"] = out.QuotaUsed
				resp["quota_limit"] = out.QuotaLimit
			}
		}
		c.JSON(code, resp)
	}
}
