package controller

import (
	"exam_tracker_backend/internal/service"
	"exam_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// PlanController 处理学习计划的API请求
type PlanController struct {
	PlanService *service.PlanService
}

func NewPlanController(planService *service.PlanService) *PlanController {
	return &PlanController{PlanService: planService}
}

// @Summary 学习计划列表
// @Description 返回前会根据练习记录重新计算进度和状态
// @Tags 学习计划
// @Produce json
// @Success 200 {object} util.Response
// @Router /plans [get]
func (c *PlanController) List(ctx *gin.Context) {
	plans, err := c.PlanService.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, plans)
}

// @Summary 创建学习计划
// @Tags 学习计划
// @Accept json
// @Produce json
// @Param plan body service.PlanRequest true "计划信息"
// @Success 201 {object} util.Response
// @Router /plans [post]
func (c *PlanController) Create(ctx *gin.Context) {
	var req service.PlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	plan, err := c.PlanService.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, plan)
}

// @Summary 更新学习计划
// @Tags 学习计划
// @Accept json
// @Produce json
// @Param id path string true "计划ID"
// @Param plan body service.PlanRequest true "计划信息"
// @Success 200 {object} util.Response
// @Router /plans/{id} [put]
func (c *PlanController) Update(ctx *gin.Context) {
	var req service.PlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	plan, err := c.PlanService.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, plan)
}

// @Summary 删除学习计划
// @Tags 学习计划
// @Produce json
// @Param id path string true "计划ID"
// @Success 200 {object} util.Response
// @Router /plans/{id} [delete]
func (c *PlanController) Delete(ctx *gin.Context) {
	if err := c.PlanService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 计划进度
// @Description 按当前练习记录计算单个计划的进度，不写回
// @Tags 学习计划
// @Produce json
// @Param id path string true "计划ID"
// @Success 200 {object} util.Response
// @Router /plans/{id}/progress [get]
func (c *PlanController) Progress(ctx *gin.Context) {
	progress, err := c.PlanService.Progress(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
