package filewatch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mycelium-catalog/mycelium/pkg/utils/filewatch"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatal(err)
	}
}

// waitDone reports whether ctx is done in a while.
func waitDone(t *testing.T, ctx context.Context, wait time.Duration) bool {
	t.Helper()
	select {
	case <-ctx.Done():
		return true
	case <-time.After(wait):
		return false
	}
}

func TestUntilModifyContext(t *testing.T) {
	for name, modify := range map[string]func(t *testing.T, dir string, file string){
		"created": func(t *testing.T, dir string, _ string) {
			touch(t, filepath.Join(dir, "new"))
		},
		"written": func(t *testing.T, _ string, file string) {
			if err := os.WriteFile(file, []byte("content"), 0o644); err != nil {
				t.Fatal(err)
			}
		},
		"removed": func(t *testing.T, _ string, file string) {
			if err := os.Remove(file); err != nil {
				t.Fatal(err)
			}
		},
		"renamed": func(t *testing.T, dir string, file string) {
			if err := os.Rename(file, filepath.Join(dir, "renamed")); err != nil {
				t.Fatal(err)
			}
		},
		"mode changed": func(t *testing.T, _ string, file string) {
			if err := os.Chmod(file, 0o700); err != nil {
				t.Fatal(err)
			}
		},
	} {
		t.Run("when a file in the watched directory is "+name+", it cancels context", func(t *testing.T) {
			dir := t.TempDir()
			file := filepath.Join(dir, "file")
			touch(t, file)

			ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), dir)
			if err != nil {
				t.Fatal(err)
			}
			defer cancel()

			if err := ctx.Err(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			modify(t, dir, file)

			if !waitDone(t, ctx, 5*time.Second) {
				t.Fatal("context is not canceled")
			}
			if cause := context.Cause(ctx); cause == nil || errors.Is(cause, context.Canceled) {
				t.Errorf("unexpected cause: %v", cause)
			}
		})
	}

	t.Run("when cancel is called, the cause is context.Canceled", func(t *testing.T) {
		ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		cancel()
		if !errors.Is(context.Cause(ctx), context.Canceled) {
			t.Errorf("unexpected cause: %v", context.Cause(ctx))
		}
	})

	t.Run("when a target does not exist, it fails", func(t *testing.T) {
		ctx, cancel, err := filewatch.UntilModifyContext(
			context.Background(), filepath.Join(t.TempDir(), "missing"),
		)
		if err == nil {
			t.Error("expected error, but not")
		}
		if ctx != nil || cancel != nil {
			t.Error("context and cancel should be nil")
		}
	})
}

func TestWatch(t *testing.T) {
	yamlOnly := filewatch.PathMatches(func(path string) bool {
		return strings.HasSuffix(path, ".yaml")
	})

	t.Run("events filtered out do not cancel context", func(t *testing.T) {
		dir := t.TempDir()
		ctx, cancel, err := filewatch.Watch(context.Background(), yamlOnly, dir)
		if err != nil {
			t.Fatal(err)
		}
		defer cancel()

		touch(t, filepath.Join(dir, "notes.txt"))
		if waitDone(t, ctx, 500*time.Millisecond) {
			t.Fatalf("context is canceled: %v", context.Cause(ctx))
		}
	})

	t.Run("events passing the filter cancel context", func(t *testing.T) {
		dir := t.TempDir()
		ctx, cancel, err := filewatch.Watch(context.Background(), yamlOnly, dir)
		if err != nil {
			t.Fatal(err)
		}
		defer cancel()

		touch(t, filepath.Join(dir, "postgres.yaml"))
		if !waitDone(t, ctx, 5*time.Second) {
			t.Fatal("context is not canceled")
		}
		if cause := context.Cause(ctx); !strings.Contains(cause.Error(), "postgres.yaml") {
			t.Errorf("unexpected cause: %v", cause)
		}
	})
}
