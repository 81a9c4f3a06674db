package controller

import (
	"exam_tracker_backend/internal/model"
	"exam_tracker_backend/internal/service"
	"exam_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// RecordController 处理练习记录的API请求
type RecordController struct {
	RecordService *service.RecordService
}

func NewRecordController(recordService *service.RecordService) *RecordController {
	return &RecordController{RecordService: recordService}
}

// @Summary 练习记录列表
// @Description 按科目与日期筛选，按日期倒序分页
// @Tags 练习记录
// @Produce json
// @Param module query string false "科目（机器键或名称）"
// @Param from query string false "开始日期 yyyy-MM-dd"
// @Param to query string false "结束日期 yyyy-MM-dd"
// @Param page query int false "页码"
// @Param limit query int false "每页数量，默认取设置中的 pageSize"
// @Success 200 {object} util.Response
// @Router /records [get]
func (c *RecordController) List(ctx *gin.Context) {
	filter := model.RecordFilter{
		Module: ctx.Query("module"),
		From:   ctx.Query("from"),
		To:     ctx.Query("to"),
		Page:   util.QueryInt(ctx.Query("page"), 1),
		Limit:  util.QueryInt(ctx.Query("limit"), 0),
	}
	page, err := c.RecordService.List(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, page)
}

// @Summary 新增练习记录
// @Tags 练习记录
// @Accept json
// @Produce json
// @Param record body service.RecordRequest true "练习记录"
// @Success 201 {object} util.Response
// @Router /records [post]
func (c *RecordController) Create(ctx *gin.Context) {
	var req service.RecordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	record, err := c.RecordService.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, record)
}

// @Summary 删除练习记录
// @Tags 练习记录
// @Produce json
// @Param id path int true "记录ID"
// @Success 200 {object} util.Response
// @Router /records/{id} [delete]
func (c *RecordController) Delete(ctx *gin.Context) {
	id, ok := util.ParseInt64(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid record ID")
		return
	}
	if err := c.RecordService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
