package util

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

var (
	ErrImportFileTooLarge = errors.New("import file too large")
	ErrInvalidFileType    = errors.New("invalid file type")
)

// ReadImportFile 读取上传的导入文件；JSON 会被识别为 text/plain
func ReadImportFile(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > MaxImportSize {
		return nil, ErrImportFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImportSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImportSize {
		return nil, ErrImportFileTooLarge
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, MimeText) && !strings.HasPrefix(mimeType, MimeJSON) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFileType, mimeType)
	}
	return data, nil
}
