package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codestep_backend/internal/config"
	"codestep_backend/internal/resolver"
	"codestep_backend/internal/util"
	"codestep_backend/pkg/logger"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// ContentStore 课程 Markdown 的存储后端，path 为解析器给出的路径（可带 ?raw）
type ContentStore interface {
	Name() string
	Exists(ctx context.Context, path string) (bool, error)
	Read(ctx context.Context, path string) ([]byte, error)
}

func objectKey(path string) string {
	return strings.TrimPrefix(resolver.ObjectPath(path), "/")
}

// LocalContentStore 本地目录，默认 public/
type LocalContentStore struct {
	Root string
}

func (s *LocalContentStore) Name() string { return util.StorageLocal }

// fullPath 拒绝跳出根目录的路径
func (s *LocalContentStore) fullPath(path string) (string, error) {
	clean := filepath.Clean("/" + objectKey(path))
	full := filepath.Join(s.Root, filepath.FromSlash(clean))
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes content root: %s", path)
	}
	return abs, nil
}

func (s *LocalContentStore) Exists(ctx context.Context, path string) (bool, error) {
	full, err := s.fullPath(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (s *LocalContentStore) Read(ctx context.Context, path string) ([]byte, error) {
	full, err := s.fullPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, util.ErrContentNotFound
	}
	return data, err
}

// MinioContentStore MinIO 对象存储
type MinioContentStore struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioContentStore(cfg *config.StorageConfig) (*MinioContentStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioContentStore{Config: cfg, Client: client}, nil
}

func (s *MinioContentStore) Name() string { return util.StorageMinio }

func isMinioNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket" || code == "NotFound"
}

func (s *MinioContentStore) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.Client.StatObject(ctx, s.Config.MinioBucket, objectKey(path), minio.StatObjectOptions{})
	if err != nil {
		if isMinioNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *MinioContentStore) Read(ctx context.Context, path string) ([]byte, error) {
	obj, err := s.Client.GetObject(ctx, s.Config.MinioBucket, objectKey(path), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isMinioNotFound(err) {
			return nil, util.ErrContentNotFound
		}
		return nil, err
	}
	return data, nil
}

// OSSContentStore 阿里云OSS
type OSSContentStore struct {
	Config *config.StorageConfig
	Client *oss.Client
}

func NewOSSContentStore(cfg *config.StorageConfig) (*OSSContentStore, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSContentStore{Config: cfg, Client: client}, nil
}

func (s *OSSContentStore) Name() string { return util.StorageOSS }

func (s *OSSContentStore) Exists(ctx context.Context, path string) (bool, error) {
	bucket, err := s.Client.Bucket(s.Config.OSSBucket)
	if err != nil {
		return false, err
	}
	return bucket.IsObjectExist(objectKey(path))
}

func (s *OSSContentStore) Read(ctx context.Context, path string) ([]byte, error) {
	bucket, err := s.Client.Bucket(s.Config.OSSBucket)
	if err != nil {
		return nil, err
	}

	body, err := bucket.GetObject(objectKey(path))
	if err != nil {
		var svcErr oss.ServiceError
		if errors.As(err, &svcErr) && svcErr.StatusCode == http.StatusNotFound {
			return nil, util.ErrContentNotFound
		}
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

// HTTPContentStore 前端静态资源服务器，与解析器的 HEAD 探测使用同一地址
type HTTPContentStore struct {
	BaseURL string
	Client  *http.Client
	prober  *resolver.HTTPProber
}

func NewHTTPContentStore(baseURL string, timeout time.Duration) *HTTPContentStore {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPContentStore{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		prober:  resolver.NewHTTPProber(baseURL, timeout),
	}
}

func (s *HTTPContentStore) Name() string { return util.StorageHTTP }

func (s *HTTPContentStore) Exists(ctx context.Context, path string) (bool, error) {
	return s.prober.Exists(ctx, path)
}

func (s *HTTPContentStore) Read(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, util.ErrContentNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}
	return io.ReadAll(resp.Body)
}

// NewContentStore 按 storage.type 选择存储，初始化失败时退回本地目录
func NewContentStore(cfg *config.Config) ContentStore {
	var store ContentStore
	switch cfg.Storage.Type {
	case util.StorageMinio:
		s, err := NewMinioContentStore(&cfg.Storage)
		if err == nil {
			store = s
		} else {
			logger.Log.Error("Failed to init MinIO content store", zap.Error(err))
		}
	case util.StorageOSS:
		s, err := NewOSSContentStore(&cfg.Storage)
		if err == nil {
			store = s
		} else {
			logger.Log.Error("Failed to init OSS content store", zap.Error(err))
		}
	case util.StorageHTTP:
		store = NewHTTPContentStore(cfg.Storage.HTTPBaseURL, cfg.Resolver.ProbeTimeout)
	}

	if store == nil {
		store = &LocalContentStore{Root: cfg.Storage.LocalPath}
	}

	return store
}
