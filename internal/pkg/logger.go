package pkg

import (
	"go.uber.org/zap"
)

// Log 全局 logger，main 里初始化一次
var Log *zap.Logger

func InitLogger(mode string) error {
	var (
		l   *zap.Logger
		err error
	)
	if mode == "release" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// L 未初始化时兜底为 no-op，避免单测里到处判空
func L() *zap.Logger {
	if Log == nil {
		return zap.NewNop()
	}
	return Log
}
