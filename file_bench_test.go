package audiotag_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/simonhull/audiotag"
)

func BenchmarkOpen(b *testing.B) {
	for _, bc := range []struct {
		name string
		data func(testing.TB) []byte
	}{
		{"FLAC", func(tb testing.TB) []byte { return createFLAC(tb) }},
		{"MP3", createMP3},
	} {
		b.Run(bc.name, func(b *testing.B) {
			path := writeFile(b, "bench", bc.data(b))
			b.ReportAllocs()

			for b.Loop() {
				file, err := audiotag.Open(path)
				if err != nil {
					b.Fatal(err)
				}
				file.Close()
			}
		})
	}
}

func BenchmarkOpenMany(b *testing.B) {
	paths := make([]string, 32)
	for i := range paths {
		paths[i] = writeFile(b, fmt.Sprintf("bench%d.flac", i), createFLAC(b))
	}
	b.ReportAllocs()

	for b.Loop() {
		files, err := audiotag.OpenMany(context.Background(), paths...)
		if err != nil {
			b.Fatal(err)
		}
		for _, f := range files {
			f.Close()
		}
	}
}
