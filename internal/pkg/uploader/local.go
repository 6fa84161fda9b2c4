package uploader

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalUploader 保存到本地目录，由服务端以静态文件方式对外提供
type LocalUploader struct {
	basePath  string
	publicURL string
}

func NewLocalUploader(basePath, publicURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalUploader{basePath: basePath, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (u *LocalUploader) Backend() string { return "local" }

// Dir 存储根目录
func (u *LocalUploader) Dir() string { return u.basePath }

func (u *LocalUploader) UploadFile(file *multipart.FileHeader, folder string) (Result, error) {
	src, err := file.Open()
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	key := objectKey(folder, file.Filename, time.Now())
	fullPath := filepath.Join(u.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return Result{}, fmt.Errorf("create dir: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return Result{}, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return Result{}, fmt.Errorf("save file: %w", err)
	}

	return Result{URL: u.publicURL + "/" + key, Key: key}, nil
}
