package uploader

import (
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"social_feed/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// Result 一次上传的结果
type Result struct {
	URL string
	Key string
}

// Uploader 资源存储后端
type Uploader interface {
	UploadFile(file *multipart.FileHeader, folder string) (Result, error)
	Backend() string
}

// objectKey 生成对象名：folder/YYYYMMDD/uuid.ext
func objectKey(folder, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(folder, now.Format("20060102"), uuid.New().String()+ext)
}

type AliyunOSSUploader struct {
	bucket *oss.Bucket
	config config.OSSConfig
}

func NewAliyunOSSUploader(cfg config.OSSConfig) (*AliyunOSSUploader, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("create oss client: %w", err)
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("open oss bucket %s: %w", cfg.BucketName, err)
	}

	return &AliyunOSSUploader{bucket: bucket, config: cfg}, nil
}

func (u *AliyunOSSUploader) Backend() string { return "oss" }

func (u *AliyunOSSUploader) UploadFile(file *multipart.FileHeader, folder string) (Result, error) {
	src, err := file.Open()
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	key := objectKey(folder, file.Filename, time.Now())
	if err := u.bucket.PutObject(key, src, oss.ContentType(file.Header.Get("Content-Type"))); err != nil {
		return Result{}, fmt.Errorf("put object %s: %w", key, err)
	}

	// bucket 需为公共读或挂 CDN
	url := fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, key)
	return Result{URL: url, Key: key}, nil
}

// New OSS 配置完整时使用 OSS，否则落盘到本地目录
func New(cfg *config.Config) (Uploader, error) {
	if cfg.OSS.Enabled() {
		return NewAliyunOSSUploader(cfg.OSS)
	}
	return NewLocalUploader(cfg.Asset.LocalDir, cfg.Asset.PublicURL)
}
