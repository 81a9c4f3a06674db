package service

import (
	"bytes"
	"context"
	"exam_tracker_backend/internal/model"
	"exam_tracker_backend/pkg/logger"
	"io"
	"strings"

	"go.uber.org/zap"
)

// maxBackupSize 恢复时读取的上限
const maxBackupSize = 32 << 20

// BackupService 云同步：把导出文件上传到对象存储，或从对象存储取回并作为导入暂存
type BackupService struct {
	export   *ExportService
	importer *ImportService
	storage  StorageProvider
	prefix   string
}

func NewBackupService(export *ExportService, importer *ImportService, storage StorageProvider, prefix string) *BackupService {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "backups"
	}
	return &BackupService{export: export, importer: importer, storage: storage, prefix: prefix}
}

// BackupInfo 备份位置
type BackupInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int    `json:"size"`
}

func (s *BackupService) Backup(ctx context.Context) (*BackupInfo, error) {
	filename, data, err := s.export.Export(ctx)
	if err != nil {
		return nil, err
	}
	name := s.prefix + "/" + filename
	url, err := s.storage.Upload(ctx, name, bytes.NewReader(data), int64(len(data)), "application/json")
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Backup uploaded", zap.String("name", name), zap.Int("bytes", len(data)))
	return &BackupInfo{Name: name, URL: url, Size: len(data)}, nil
}

func (s *BackupService) List(ctx context.Context) ([]string, error) {
	return s.storage.List(ctx, s.prefix+"/")
}

// Restore 取回备份并走与手动导入相同的预览流程，仍需用户确认
func (s *BackupService) Restore(ctx context.Context, name string) (*model.ImportBundle, error) {
	cleaned, ok := cleanObjectName(name)
	if !ok || !strings.HasPrefix(cleaned, s.prefix+"/") {
		return nil, &ValidationError{Field: "name", Message: "备份名称无效"}
	}

	rc, err := s.storage.Download(ctx, cleaned)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxBackupSize))
	if err != nil {
		return nil, err
	}
	return s.importer.Preview(ctx, data)
}
