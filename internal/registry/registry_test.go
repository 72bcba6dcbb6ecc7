package registry

import (
	"bytes"
	"io"
	"testing"

	"github.com/simonhull/audiotag/internal/types"
)

// mockContainer records which parser produced it.
type mockContainer struct {
	name string
}

func (m *mockContainer) AudioSpan() (int64, int64) { return 0, 0 }

// mockParser implements Parser for testing.
type mockParser struct {
	name string
}

func (m *mockParser) Parse(r Source, size int64, opts types.ParseOptions) (Container, error) {
	return &mockContainer{name: m.name}, nil
}

// mockWriter writes the container name.
type mockWriter struct{}

func (mockWriter) Write(w io.Writer, src Source, c Container) error {
	_, err := io.WriteString(w, c.(*mockContainer).name)
	return err
}

func TestRegisterAndGet(t *testing.T) {
	// Use a format that's unlikely to conflict with real registrations
	format := types.Format(999)
	Register(format, &mockParser{name: "test"})

	got := Get(format)
	if got == nil {
		t.Fatal("Get() returned nil for registered format")
	}

	c, err := got.Parse(nil, 0, types.DefaultParseOptions())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if name := c.(*mockContainer).name; name != "test" {
		t.Errorf("container name = %q, want %q", name, "test")
	}
}

func TestGet_Unregistered(t *testing.T) {
	format := types.Format(998)

	if got := Get(format); got != nil {
		t.Errorf("Get() = %v for unregistered format, want nil", got)
	}
	if got := GetWriter(format); got != nil {
		t.Errorf("GetWriter() = %v for unregistered format, want nil", got)
	}
}

func TestRegister_Overwrites(t *testing.T) {
	format := types.Format(997)
	Register(format, &mockParser{name: "first"})
	Register(format, &mockParser{name: "second"})

	mp, ok := Get(format).(*mockParser)
	if !ok {
		t.Fatal("Get() returned wrong parser type")
	}
	if mp.name != "second" {
		t.Errorf("Parser name = %q, want %q (should be overwritten)", mp.name, "second")
	}
}

func TestRegisterWriter(t *testing.T) {
	format := types.Format(996)
	RegisterWriter(format, mockWriter{})

	w := GetWriter(format)
	if w == nil {
		t.Fatal("GetWriter() returned nil")
	}

	var buf bytes.Buffer
	if err := w.Write(&buf, nil, &mockContainer{name: "written"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if buf.String() != "written" {
		t.Errorf("Write() wrote %q, want %q", buf.String(), "written")
	}
}
