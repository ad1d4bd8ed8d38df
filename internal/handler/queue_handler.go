package handler

import (
	"errors"
	"net/http"
	"strconv"

	"Lee_Moderation/internal/middleware"
	"Lee_Moderation/internal/service"

	"github.com/gin-gonic/gin"
)

type QueueHandler struct {
	svc *service.QueueService
}

type ReviewReq struct {
	Decision string `json:"decision"` // approve / reject
	Notes    string `json:"notes"`
}

type AppealReq struct {
	Reason string `json:"reason"`
}

type ResolveAppealReq struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes"`
}

func NewQueueHandler(svc *service.QueueService) *QueueHandler {
	return &QueueHandler{svc: svc}
}

// Review 审核接口：pending -> approved/rejected
func (h *QueueHandler) Review(c *gin.Context) {
	reviewerAny, _ := c.Get(middleware.ContextUserIDKey)
	reviewerID := reviewerAny.(uint64)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid queue id"})
		return
	}

	var req ReviewReq
	if err := c.ShouldBindJSON(&req); err != nil || (req.Decision != "approve" && req.Decision != "reject") {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "decision must be approve or reject"})
		return
	}

	err = h.svc.Review(c.Request.Context(), id, reviewerID, req.Decision == "approve", req.Notes)
	if errors.Is(err, service.ErrAlreadyReviewed) {
		c.JSON(http.StatusConflict, gin.H{"msg": "already reviewed"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "reviewed"})
}

// SubmitAppeal 作者对自己的被拦帖子提交申诉；评论或状态不符时返回失败而非报错
func (h *QueueHandler) SubmitAppeal(c *gin.Context) {
	userIDAny, _ := c.Get(middleware.ContextUserIDKey)
	userID := userIDAny.(uint64)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid queue id"})
		return
	}

	var req AppealReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "reason required"})
		return
	}

	ok, err := h.svc.SubmitAppeal(c.Request.Context(), id, userID, req.Reason)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"accepted": false, "msg": "this item cannot be appealed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": true})
}

// ResolveAppeal 审核员终结申诉
func (h *QueueHandler) ResolveAppeal(c *gin.Context) {
	reviewerAny, _ := c.Get(middleware.ContextUserIDKey)
	reviewerID := reviewerAny.(uint64)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid queue id"})
		return
	}

	var req ResolveAppealReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	err = h.svc.ResolveAppeal(c.Request.Context(), id, reviewerID, req.Approved, req.Notes)
	if errors.Is(err, service.ErrNotAppealed) {
		c.JSON(http.StatusConflict, gin.H{"msg": "item is not under appeal"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "appeal resolved"})
}

// Pending 待审列表（含命中词表，仅审核端可见）
func (h *QueueHandler) Pending(c *gin.Context) {
	list, err := h.svc.Pending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Appealed 申诉中列表
func (h *QueueHandler) Appealed(c *gin.Context) {
	list, err := h.svc.Appealed(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// History 审核历史
func (h *QueueHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Stats 审核统计
func (h *QueueHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "stats failed"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
