package store

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/clarkeh/go-time-ledger/internal/util"
)

// ShardEvent reports an external change to a shard file.
type ShardEvent struct {
	Shard     string
	Operation string
}

// ShardWatcher watches the data directory for shard files changing outside
// the process. The directory is typically under Dropbox sync, so shards can
// be rewritten by another machine at any time.
type ShardWatcher struct {
	watcher *fsnotify.Watcher
	events  chan ShardEvent
}

func NewShardWatcher(dataDir string) (*ShardWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dataDir); err != nil {
		watcher.Close()
		return nil, err
	}

	sw := &ShardWatcher{
		watcher: watcher,
		events:  make(chan ShardEvent, 100),
	}
	go sw.processEvents()

	return sw, nil
}

func (sw *ShardWatcher) processEvents() {
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			shard := shardFromPath(event.Name)
			if shard == "" {
				continue
			}
			sw.events <- ShardEvent{Shard: shard, Operation: event.Op.String()}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			// Log and keep watching.
			util.LogError("shard watch error", util.F("error", err.Error()))
		}
	}
}

// shardFromPath extracts the shard identifier from a shard file path, or
// returns "" for files that are not shards.
func shardFromPath(path string) string {
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "time_tracker_") || !strings.HasSuffix(name, ".csv") {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(name, "time_tracker_"), ".csv")
}

func (sw *ShardWatcher) Events() <-chan ShardEvent {
	return sw.events
}

func (sw *ShardWatcher) Close() error {
	return sw.watcher.Close()
}
