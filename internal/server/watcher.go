package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDebounce batches the burst of events editors emit for one save.
const reloadDebounce = 250 * time.Millisecond

// watch reloads path after it changes until ctx is done. The parent directory is
// watched so replace-by-rename saves are seen too. Failed reloads keep the current dataset.
func (s *Server) watch(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	s.logger.Info("watching input", zap.String("path", path))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			s.logger.Debug("input changed", zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			if err := s.LoadInput(); err != nil {
				s.logger.Warn("reload failed, keeping current dataset", zap.String("path", path), zap.Error(err))
			}
		}
	}
}
