package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 导入文件相关常量
const (
	MaxImportSize = 16 << 20
	MimeJSON      = "application/json"
	MimeText      = "text/plain"
)
