package asset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"social_feed/internal/feed"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 并发上传数
const uploadConcurrency = 5

// Client 资源托管方客户端：multipart 上传 file 与 upload_preset，返回 secure_url
type Client struct {
	endpoint string
	preset   string
	client   *http.Client
	log      *zap.Logger
}

var _ feed.AssetUploader = (*Client)(nil)

func NewClient(endpoint, preset string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		preset:   preset,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type uploadError struct {
	Message string `json:"message"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload 上传单个文件
func (c *Client) Upload(ctx context.Context, file feed.Upload) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", file.Filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", feed.ErrUpload, err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return "", fmt.Errorf("%w: %v", feed.ErrUpload, err)
	}
	_ = w.WriteField("upload_preset", c.preset)
	_ = w.WriteField("timestamp", strconv.FormatInt(time.Now().Unix(), 10))
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", feed.ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", feed.ErrUpload, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w: %v", feed.ErrUpload, feed.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", feed.ErrUpload, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var ue uploadError
		_ = json.Unmarshal(data, &ue)
		msg := ue.Message
		if msg == "" {
			msg = ue.Error.Message
		}
		c.log.Warn("asset upload rejected",
			zap.String("filename", file.Filename),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return "", fmt.Errorf("%w: status %d: %s", feed.ErrUpload, resp.StatusCode, msg)
	}

	var res uploadResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", feed.ErrUpload, err)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("%w: empty secure_url", feed.ErrUpload)
	}

	c.log.Debug("asset uploaded", zap.String("filename", file.Filename), zap.String("url", res.SecureURL))
	return res.SecureURL, nil
}

// UploadAll 并发上传，返回的 URL 顺序与输入一致；任意一个失败则整体失败
func (c *Client) UploadAll(ctx context.Context, files []feed.Upload) ([]string, error) {
	urls := make([]string, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, f := range files {
		g.Go(func() error {
			u, err := c.Upload(ctx, f)
			if err != nil {
				return err
			}
			urls[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
