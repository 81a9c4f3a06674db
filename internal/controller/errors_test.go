package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"exam_tracker_backend/internal/service"
	"exam_tracker_backend/internal/util"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"parse", &service.ParseError{Err: errors.New("bad json")}, http.StatusBadRequest},
		{"schema", &service.SchemaError{Reason: "缺少 records 数组"}, http.StatusBadRequest},
		{"validation", &service.ValidationError{Field: "name", Message: "必填"}, http.StatusBadRequest},
		{"file type", fmt.Errorf("%w: image/png", util.ErrInvalidFileType), http.StatusBadRequest},
		{"too large", util.ErrImportFileTooLarge, http.StatusRequestEntityTooLarge},
		{"pending import", service.ErrPendingImportNotFound, http.StatusNotFound},
		{"wrapped plan", fmt.Errorf("update: %w", service.ErrPlanNotFound), http.StatusNotFound},
		{"backup", service.ErrBackupNotFound, http.StatusNotFound},
		{"other", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(ctx, tt.err)
			assert.Equal(t, tt.code, w.Code)

			var body util.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestReadImportBodyRaw(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(`[{"total":1}]`))
	ctx.Request.Header.Set("Content-Type", "application/json")

	data, err := readImportBody(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"total":1}]`, string(data))
}

func TestReadImportBodyRejectsBinaryUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "records.json")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	ctx.Request.Header.Set("Content-Type", mw.FormDataContentType())

	_, err = readImportBody(ctx)
	require.ErrorIs(t, err, util.ErrInvalidFileType)

	respondError(ctx, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
