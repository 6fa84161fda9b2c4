package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志实例，InitLogger 之前为 Nop
var Log = zap.NewNop()

// InitLogger 初始化日志：prod 使用 JSON 输出，其余环境使用开发配置
func InitLogger(env, level string) error {
	var cfg zap.Config
	if env == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level.SetLevel(lvl)

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Named 返回带名称的子日志
func Named(name string) *zap.Logger {
	return Log.Named(name)
}

// Sync 刷新缓冲区，退出前调用
func Sync() {
	_ = Log.Sync()
}
