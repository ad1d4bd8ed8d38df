package handler

import (
	"errors"
	"net/http"
	"strconv"

	"Lee_Moderation/internal/middleware"
	"Lee_Moderation/internal/model"
	"Lee_Moderation/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *service.ReportService
}

type FileReportReq struct {
	ContentType  string `json:"content_type"` // post / comment
	TargetID     uint64 `json:"target_id"`
	Reason       string `json:"reason"`
	CustomReason string `json:"custom_reason"`
}

type ResolveReportReq struct {
	Action          string `json:"action"`
	ModeratorNote   string `json:"moderator_note"`    // 私有备注，不进通知
	MessageReporter string `json:"message_reporter"`  // 附在举报人通知后
	MessageTarget   string `json:"message_target"`    // 附在被处理人通知后
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

var validReportReasons = map[model.ReportReason]bool{
	model.ReportSpam:           true,
	model.ReportHarassment:     true,
	model.ReportInappropriate:  true,
	model.ReportMisinformation: true,
	model.ReportOther:          true,
}

var validReportActions = map[model.ReportAction]bool{
	model.ActionContentRemoved: true,
	model.ActionUserWarned:     true,
	model.ActionUserBlocked:    true,
	model.ActionDismissed:      true,
	model.ActionVerified:       true,
}

// FileReport 用户举报已发布内容
func (h *ReportHandler) FileReport(c *gin.Context) {
	reporterAny, _ := c.Get(middleware.ContextUserIDKey)
	reporterID := reporterAny.(uint64)

	var req FileReportReq
	if err := c.ShouldBindJSON(&req); err != nil || req.TargetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	contentType := model.ActionType(req.ContentType)
	if contentType != model.ActionPost && contentType != model.ActionComment {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid content type"})
		return
	}
	reason := model.ReportReason(req.Reason)
	if !validReportReasons[reason] {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid reason"})
		return
	}

	report, err := h.svc.FileReport(c.Request.Context(), reporterID, contentType, req.TargetID, reason, req.CustomReason)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report_id": report.ID, "status": report.Status})
}

// Pending 待处理举报列表
func (h *ReportHandler) Pending(c *gin.Context) {
	list, err := h.svc.Pending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Resolve 审核员处置举报
func (h *ReportHandler) Resolve(c *gin.Context) {
	modIDAny, _ := c.Get(middleware.ContextUserIDKey)
	roleAny, _ := c.Get(middleware.ContextRoleKey)
	moderator := &model.User{ID: modIDAny.(uint64), Role: roleAny.(model.Role)}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid report id"})
		return
	}

	var req ResolveReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	action := model.ReportAction(req.Action)
	if !validReportActions[action] {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid action"})
		return
	}

	err = h.svc.Resolve(c.Request.Context(), id, moderator, action, req.ModeratorNote, req.MessageReporter, req.MessageTarget)
	switch {
	case errors.Is(err, service.ErrReportAlreadyResolved):
		c.JSON(http.StatusConflict, gin.H{"msg": "report already resolved"})
	case errors.Is(err, service.ErrBlockRequiresStaff):
		c.JSON(http.StatusForbidden, gin.H{"msg": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"msg": "resolved"})
	}
}
