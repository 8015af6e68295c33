package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
	StorageHTTP  = "http"
)

// 课程内容允许的 MIME 类型
const (
	MimeText     = "text/"
	MimeMarkdown = "text/markdown"
)

var AllowedContentTypes = []string{MimeText, MimeMarkdown}

const (
	DefaultRecentCourses = 5
	DefaultSuggestions   = 5
	DefaultHotSearches   = 10
)
