package util

import (
	"errors"
	"net/http"
	"strings"
)

// ValidateMimeType 按内容探测 MIME 类型，防止把二进制文件当作课程文档下发
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "text/"
func ValidateMimeType(data []byte, allowedTypes []string) (string, error) {
	n := len(data)
	if n > 512 {
		n = 512
	}
	if n == 0 {
		return "text/plain; charset=utf-8", nil
	}

	mimeType := http.DetectContentType(data[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}
