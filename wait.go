package dynamodblocal

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// WaitInstalled blocks until the provisioned install tree under dir
// contains the entry-point jar, or ctx is done. It checks the current
// state first and only then watches the directory, so an already-complete
// install returns immediately. Useful when several test processes share
// one install directory and only one of them provisions.
func WaitInstalled(ctx context.Context, dir string) error {
	jar := filepath.Join(dir, JarFile)

	if _, err := os.Stat(jar); err == nil {
		return nil
	}

	// The directory itself may not exist yet; it is created by the first
	// provisioning step, so wait for it before adding the watch.
	if err := waitForDir(ctx, dir); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &OpError{Op: OpWait, Path: dir, Err: err}
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return &OpError{Op: OpWait, Path: dir, Err: err}
	}

	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		_ = watcher.Close()
	})
	defer func() {
		sctx.Stop(100 * time.Millisecond)
		_ = sctx.Wait()
	}()

	done := make(chan error, 1)

	sctx.Go(func(sctx *stopper.Context) error {
		debounce := time.NewTimer(DefaultWatchDebounce)
		if !debounce.Stop() {
			<-debounce.C
		}

		check := func() bool {
			if _, err := os.Stat(jar); err == nil {
				done <- nil
				return true
			}
			return false
		}

		// Re-check after adding the watch; the jar may have appeared in
		// the window before the watcher was registered.
		if check() {
			return nil
		}

		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
					debounce.Reset(DefaultWatchDebounce)
				}
			case <-debounce.C:
				if check() {
					return nil
				}
			case werr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				done <- &OpError{Op: OpWait, Path: dir, Err: werr}
				return nil
			case <-sctx.Stopping():
				return nil
			}
		}
	})

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// waitForDir polls for dir to exist. Polling is confined to this
// bootstrap step; once the directory exists the caller switches to
// fsnotify events.
func waitForDir(ctx context.Context, dir string) error {
	ticker := time.NewTicker(DefaultWatchDebounce)
	defer ticker.Stop()

	for {
		if _, err := os.Stat(dir); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
