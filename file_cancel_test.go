package audiotag_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/simonhull/audiotag"
)

func createPaths(t *testing.T, n int) []string {
	t.Helper()

	paths := make([]string, n)
	for i := range paths {
		data := createFLAC(t)
		if i%2 == 1 {
			data = createMP3(t)
		}
		paths[i] = writeFile(t, fmt.Sprintf("song%d", i), data)
	}
	return paths
}

func TestOpenMany(t *testing.T) {
	paths := createPaths(t, 6)

	files, err := audiotag.OpenMany(context.Background(), paths...)
	if err != nil {
		t.Fatalf("OpenMany() error = %v", err)
	}
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	if len(files) != len(paths) {
		t.Fatalf("got %d files, want %d", len(files), len(paths))
	}
	for i, f := range files {
		if f.Path != paths[i] {
			t.Errorf("files[%d].Path = %q, want %q", i, f.Path, paths[i])
		}
		want := audiotag.FormatFLAC
		if i%2 == 1 {
			want = audiotag.FormatMP3
		}
		if f.Format != want {
			t.Errorf("files[%d].Format = %v, want %v", i, f.Format, want)
		}
	}
}

func TestOpenMany_Empty(t *testing.T) {
	files, err := audiotag.OpenMany(context.Background())
	if err != nil || files != nil {
		t.Errorf("OpenMany() = %v, %v; want nil, nil", files, err)
	}
}

func TestOpenMany_Cancelled(t *testing.T) {
	paths := createPaths(t, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files, err := audiotag.OpenMany(ctx, paths...)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("OpenMany() error = %v, want context.Canceled", err)
	}
	if files != nil {
		t.Errorf("OpenMany() returned %d files on error", len(files))
	}
}

func TestOpenMany_OneFailure(t *testing.T) {
	paths := append(createPaths(t, 3), filepath.Join(t.TempDir(), "missing.flac"))

	files, err := audiotag.OpenMany(context.Background(), paths...)
	if err == nil {
		t.Fatal("expected an error for the missing file")
	}
	if files != nil {
		t.Errorf("OpenMany() returned %d files on error", len(files))
	}
}

func TestOpenManyWithOptions(t *testing.T) {
	paths := createPaths(t, 2)

	files, err := audiotag.OpenManyWithOptions(context.Background(), paths, audiotag.WithoutProperties())
	if err != nil {
		t.Fatalf("OpenManyWithOptions() error = %v", err)
	}
	for _, f := range files {
		if f.Properties.SampleRate != 0 {
			t.Errorf("%s: properties read despite WithoutProperties", f.Path)
		}
		f.Close()
	}
}

func TestOpenContext_Cancelled(t *testing.T) {
	path := createPaths(t, 1)[0]

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := audiotag.OpenContext(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("OpenContext() error = %v, want context.Canceled", err)
	}
}
