package asset

import (
	"fmt"

	"social_feed/internal/domain/asset/handler"
	"social_feed/internal/pkg/registry"
	"social_feed/internal/pkg/uploader"

	"go.uber.org/zap"
)

// staticPrefix 本地存储文件的访问路径，需与 asset.public_url 一致
const staticPrefix = "/assets/files"

// AssetModule 图片上传与托管
type AssetModule struct{}

func init() {
	registry.Register(&AssetModule{})
}

func (m *AssetModule) Name() string {
	return "asset"
}

func (m *AssetModule) Priority() int {
	return 20
}

func (m *AssetModule) Init(ctx *registry.ModuleContext) error {
	up, err := uploader.New(ctx.Config)
	if err != nil {
		return fmt.Errorf("init uploader: %w", err)
	}
	log := ctx.Logger.Named("asset")
	log.Info("asset storage ready", zap.String("backend", up.Backend()))

	if local, ok := up.(*uploader.LocalUploader); ok {
		ctx.Router.Static(staticPrefix, local.Dir())
	}

	h := handler.NewAssetHandler(up, ctx.Config.Asset, ctx.Metrics, log)
	ctx.Router.POST("/assets/upload", h.Upload)
	return nil
}
