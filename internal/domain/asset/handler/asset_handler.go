package handler

import (
	"net/http"
	"strings"

	"social_feed/internal/pkg/config"
	"social_feed/internal/pkg/uploader"
	"social_feed/pkg/metrics"
	"social_feed/pkg/response"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssetHandler 图片托管
type AssetHandler struct {
	uploader uploader.Uploader
	cfg      config.AssetConfig
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewAssetHandler(up uploader.Uploader, cfg config.AssetConfig, m *metrics.Collector, log *zap.Logger) *AssetHandler {
	return &AssetHandler{uploader: up, cfg: cfg, metrics: m, log: log}
}

// UploadResponse 上传结果
type UploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Upload 上传单张图片
// @Summary 上传图片
// @Tags Asset
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "图片文件"
// @Param upload_preset formData string true "上传预设"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} response.Response
// @Failure 413 {object} response.Response
// @Router /assets/upload [post]
func (h *AssetHandler) Upload(c *gin.Context) {
	preset := c.PostForm("upload_preset")
	if !h.cfg.HasPreset(preset) {
		response.Error(c, http.StatusBadRequest, response.ErrUnknownPreset, "Unknown upload preset")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "No file uploaded")
		return
	}
	if h.cfg.MaxSize > 0 && file.Size > h.cfg.MaxSize {
		response.Error(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge, "File too large")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid file")
		return
	}
	mt, err := mimetype.DetectReader(src)
	src.Close()
	if err != nil || !strings.HasPrefix(mt.String(), "image/") {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Only image files are allowed")
		return
	}

	res, err := h.uploader.UploadFile(file, preset)
	h.metrics.RecordUpload(h.uploader.Backend(), err)
	if err != nil {
		h.log.Error("upload failed", zap.String("filename", file.Filename), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrUploadFailed, "Upload failed")
		return
	}

	h.log.Debug("asset stored",
		zap.String("key", res.Key),
		zap.String("mime", mt.String()),
		zap.Int64("size", file.Size),
	)
	response.OK(c, http.StatusOK, UploadResponse{SecureURL: res.URL, PublicID: res.Key})
}
