package controller

import (
	"errors"
	"exam_tracker_backend/internal/service"
	"exam_tracker_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError 解析、结构、表单和文件类型错误返回 400，未找到返回 404，其余记录日志后返回 500
func respondError(ctx *gin.Context, err error) {
	var parseErr *service.ParseError
	var schemaErr *service.SchemaError
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &parseErr), errors.As(err, &schemaErr), errors.As(err, &validationErr),
		errors.Is(err, util.ErrInvalidFileType):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrImportFileTooLarge):
		util.Error(ctx, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrPendingImportNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrRecordNotFound),
		errors.Is(err, service.ErrKnowledgeNotFound),
		errors.Is(err, service.ErrBackupNotFound):
		util.NotFound(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
