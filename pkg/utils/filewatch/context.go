package filewatch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Filter tells whether an event should cancel the context.
type Filter func(fsnotify.Event) bool

// Any accepts all events.
func Any(fsnotify.Event) bool {
	return true
}

// PathMatches accepts events on files whose path satisfies pred.
func PathMatches(pred func(path string) bool) Filter {
	return func(e fsnotify.Event) bool {
		return pred(e.Name)
	}
}

// UntilModifyContext returns a context that is canceled
// when one of target files is modified (= written, created, removed, renamed or chmod-ed).
//
// It is Watch with the filter Any.
func UntilModifyContext(ctx context.Context, targetFilePath ...string) (context.Context, func(), error) {
	return Watch(ctx, Any, targetFilePath...)
}

// Watch returns a context that is canceled when an event accepted by filter happens
// on target files, or files in target directories.
//
// # Returns
//
// - context.Context: context that is canceled by an event. Its cause tells the event.
//
// - func(): cancel function.
//
// - error: error caused when it fails to start watching files.
//
// If error is not nil, both of the context and the cancel function are nil.
func Watch(ctx context.Context, filter Filter, targetFilePath ...string) (context.Context, func(), error) {
	cctx, cancel := context.WithCancelCause(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(err)
		return nil, nil, err
	}

	go func() {
		defer w.Close()

		for {
			select {
			case <-cctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filter(event) {
					cancel(fmt.Errorf("%s is updated (%s)", event.Name, event.Op.String()))
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				cancel(fmt.Errorf("watching files failed: %w", err))
			}
		}
	}()

	for _, f := range targetFilePath {
		if err = w.Add(f); err != nil {
			cancel(err)
			return nil, nil, err
		}
	}
	return cctx, func() { cancel(nil) }, nil
}
