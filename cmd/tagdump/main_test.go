package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/audiotag/internal/id3v2"
)

var frames = append([]byte{0xFF, 0xFB, 0x90, 0x64}, bytes.Repeat([]byte{0x55}, 60)...)

func writeMP3(t *testing.T, title string) string {
	t.Helper()

	tag := id3v2.NewTag()
	tag.SetTitle(title)
	tag.SetArtist("Dump Artist")
	head, err := tag.Bytes(id3v2.DefaultWriteOptions())
	if err != nil {
		t.Fatalf("id3v2 Bytes() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "dump.mp3")
	if err := os.WriteFile(path, append(head, frames...), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runTagdump(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRun_Text(t *testing.T) {
	path := writeMP3(t, "Dump Title")

	out, err := runTagdump(t, path)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	for _, want := range []string{path, "MP3", "ID3v2", "Dump Title", "Dump Artist"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_YAML(t *testing.T) {
	path := writeMP3(t, "YAML Title")

	out, err := runTagdump(t, "--output", "yaml", path)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var r Report
	if err := yaml.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v\n%s", err, out)
	}
	if r.Path != path || r.Format != "MP3" {
		t.Errorf("report = %+v", r)
	}
	if !containsItem(r.Items, "YAML Title") {
		t.Errorf("items = %v, want the title", r.Items)
	}
}

func TestRun_CBORWithSum(t *testing.T) {
	path := writeMP3(t, "CBOR Title")

	out, err := runTagdump(t, "-o", "cbor", "--sum", path)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var r Report
	if err := cbor.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("cbor.Unmarshal() error = %v", err)
	}
	if !containsItem(r.Items, "CBOR Title") {
		t.Errorf("items = %v, want the title", r.Items)
	}

	want := blake3.Sum256(frames)
	if r.Sum != hex.EncodeToString(want[:]) {
		t.Errorf("Sum = %s, want %x", r.Sum, want)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	path := writeMP3(t, "Config Title")
	config := filepath.Join(t.TempDir(), "tagdump.yaml")
	if err := os.WriteFile(config, []byte("output: yaml\nsum: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("config applies", func(t *testing.T) {
		out, err := runTagdump(t, "--config", config, path)
		if err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if !strings.Contains(out, "sum: ") || !strings.Contains(out, "tag_type: ID3v2") {
			t.Errorf("expected YAML with a sum:\n%s", out)
		}
	})

	t.Run("flags override", func(t *testing.T) {
		out, err := runTagdump(t, "--config", config, "--output", "text", "--sum=false", path)
		if err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if strings.Contains(out, "sum:") || strings.Contains(out, "tag_type:") {
			t.Errorf("expected plain text without a sum:\n%s", out)
		}
	})
}

func TestRun_Errors(t *testing.T) {
	path := writeMP3(t, "Errors")

	tests := []struct {
		name string
		args []string
	}{
		{"no files", nil},
		{"bad output", []string{"--output", "xml", path}},
		{"bad log level", []string{"--log-level", "loud", path}},
		{"missing file", []string{filepath.Join(t.TempDir(), "missing.mp3")}},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), path}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runTagdump(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRun_Version(t *testing.T) {
	out, err := runTagdump(t, "--version")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.HasPrefix(out, "tagdump ") {
		t.Errorf("output = %q", out)
	}
}

func containsItem(items []Item, value string) bool {
	for _, item := range items {
		if item.Value == value {
			return true
		}
	}
	return false
}
