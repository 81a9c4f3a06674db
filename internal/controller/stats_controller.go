package controller

import (
	"exam_tracker_backend/internal/service"
	"exam_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService        *service.StatsService
	NotificationService *service.NotificationService
}

func NewStatsController(statsService *service.StatsService, notificationService *service.NotificationService) *StatsController {
	return &StatsController{StatsService: statsService, NotificationService: notificationService}
}

// @Summary 分科目统计
// @Tags 统计
// @Produce json
// @Param from query string false "开始日期"
// @Param to query string false "结束日期"
// @Success 200 {object} util.Response
// @Router /stats/modules [get]
func (c *StatsController) Modules(ctx *gin.Context) {
	stats, err := c.StatsService.ModuleStats(ctx.Request.Context(), ctx.Query("from"), ctx.Query("to"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// @Summary 最近通知
// @Description 计划完成等提醒，按时间倒序
// @Tags 统计
// @Produce json
// @Param limit query int false "数量，默认20"
// @Success 200 {object} util.Response
// @Router /notifications [get]
func (c *StatsController) Notifications(ctx *gin.Context) {
	list, err := c.NotificationService.Recent(ctx.Request.Context(), util.QueryInt(ctx.Query("limit"), 20))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}
