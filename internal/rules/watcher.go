package rules

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"sayso-interpreter/internal/model"
)

// Watch 监听规则文件变化，每次成功重新加载后调用 onChange。
// 监听所在目录而不是文件本身，编辑器的“写临时文件再重命名”也能被捕获。
// 新规则校验失败时只记录日志，保留旧规则。阻塞直到 ctx 结束
func Watch(ctx context.Context, path string, logger *zap.Logger, onChange func([]model.Intent) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve rules path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("watching intent rules", zap.String("path", abs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			intents, err := Load(abs)
			if err != nil {
				logger.Warn("reload intent rules failed, keeping previous rules", zap.Error(err))
				continue
			}
			if err := onChange(intents); err != nil {
				logger.Warn("apply intent rules failed, keeping previous rules", zap.Error(err))
				continue
			}
			logger.Info("intent rules reloaded", zap.Int("intents", len(intents)))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("rules watcher error", zap.Error(err))
		}
	}
}
