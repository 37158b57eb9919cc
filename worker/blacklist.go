package worker

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/anyswap/XRPL-Custody/registry"
)

// BlacklistWatcher rebuilds the registry when the blacklist file changes
type BlacklistWatcher struct {
	file    string
	watch   *fsnotify.Watcher
	rebuild func() (*registry.Registry, error)
	apply   func(*registry.Registry)
}

// NewBlacklistWatcher watches the directory of file, so editors that
// replace the file by rename are noticed too
func NewBlacklistWatcher(file string, rebuild func() (*registry.Registry, error), apply func(*registry.Registry)) (*BlacklistWatcher, error) {
	file, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	watch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err = watch.Add(filepath.Dir(file)); err != nil {
		_ = watch.Close()
		return nil, err
	}
	return &BlacklistWatcher{file: file, watch: watch, rebuild: rebuild, apply: apply}, nil
}

// Run handles events until ctx is done
func (bw *BlacklistWatcher) Run(ctx context.Context) {
	logWorker("blacklist", "start fsnotify watch", "file", bw.file)
	defer func() {
		logWorker("blacklist", "stop fsnotify watch", "file", bw.file)
		_ = bw.watch.Close()
	}()

	ops := []fsnotify.Op{
		fsnotify.Create,
		fsnotify.Write,
		fsnotify.Rename,
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-bw.watch.Events:
			if !ok {
				return
			}
			logWorkerTrace("blacklist", "fsnotify watch event", "event", ev)
			if filepath.Clean(ev.Name) != bw.file {
				continue
			}
			for _, op := range ops {
				if ev.Op&op == op {
					bw.reload()
					break
				}
			}
		case werr, ok := <-bw.watch.Errors:
			if !ok {
				return
			}
			logWorkerError("blacklist", "fsnotify watch error", werr)
		}
	}
}

func (bw *BlacklistWatcher) reload() {
	reg, err := bw.rebuild()
	if err != nil {
		// keep the current registry
		logWorkerError("blacklist", "reload blacklist failed", err, "file", bw.file)
		return
	}
	bw.apply(reg)
	logWorker("blacklist", "reload blacklist success", "file", bw.file, "count", len(reg.Blacklist()))
}
