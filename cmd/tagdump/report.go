package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/audiotag"
	"github.com/simonhull/audiotag/internal/flac"
)

// Report is everything tagdump prints about one file.
type Report struct {
	Path       string             `yaml:"path" cbor:"path"`
	Format     string             `yaml:"format" cbor:"format"`
	TagType    string             `yaml:"tag_type" cbor:"tag_type"`
	Items      []Item             `yaml:"items,omitempty" cbor:"items,omitempty"`
	Pictures   []Picture          `yaml:"pictures,omitempty" cbor:"pictures,omitempty"`
	Properties *Properties        `yaml:"properties,omitempty" cbor:"properties,omitempty"`
	Chapters   []audiotag.Chapter `yaml:"chapters,omitempty" cbor:"chapters,omitempty"`
	Blocks     []Block            `yaml:"blocks,omitempty" cbor:"blocks,omitempty"`
	Sum        string             `yaml:"sum,omitempty" cbor:"sum,omitempty"`
}

type Item struct {
	Key   string `yaml:"key" cbor:"key"`
	Value string `yaml:"value" cbor:"value"`
}

type Picture struct {
	Type        string `yaml:"type" cbor:"type"`
	MIMEType    string `yaml:"mime_type" cbor:"mime_type"`
	Description string `yaml:"description,omitempty" cbor:"description,omitempty"`
	Size        int    `yaml:"size" cbor:"size"`
}

type Properties struct {
	Duration       string `yaml:"duration" cbor:"duration"`
	SampleRate     uint32 `yaml:"sample_rate" cbor:"sample_rate"`
	Channels       uint8  `yaml:"channels" cbor:"channels"`
	BitDepth       uint8  `yaml:"bit_depth" cbor:"bit_depth"`
	TotalSamples   uint64 `yaml:"total_samples" cbor:"total_samples"`
	OverallBitrate uint32 `yaml:"overall_bitrate" cbor:"overall_bitrate"`
	AudioBitrate   uint32 `yaml:"audio_bitrate" cbor:"audio_bitrate"`
}

// Block is one FLAC metadata block as found in the stream.
type Block struct {
	Type string `yaml:"type" cbor:"type"`
	Size int64  `yaml:"size" cbor:"size"`
}

// newReport collects the report for an open file.
func newReport(f *audiotag.File, cfg Config) (Report, error) {
	r := Report{
		Path:    f.Path,
		Format:  f.Format.String(),
		TagType: f.Tag.TagType.String(),
	}

	for item := range f.Tag.All() {
		r.Items = append(r.Items, Item{Key: item.Name(), Value: item.Value.String()})
	}
	for _, p := range f.Tag.Pictures() {
		r.Pictures = append(r.Pictures, Picture{
			Type:        p.Type.String(),
			MIMEType:    p.MIMEType,
			Description: p.Description,
			Size:        len(p.Data),
		})
	}

	if p := f.Properties; p.SampleRate > 0 {
		r.Properties = &Properties{
			Duration:       p.Duration.String(),
			SampleRate:     p.SampleRate,
			Channels:       p.Channels,
			BitDepth:       p.BitDepth,
			TotalSamples:   p.TotalSamples,
			OverallBitrate: p.OverallBitrate,
			AudioBitrate:   p.AudioBitrate,
		}
	}
	r.Chapters = f.Chapters()

	if cfg.Blocks && f.FLAC != nil {
		r.Blocks = append(r.Blocks, Block{Type: flac.BlockName(flac.BlockStreamInfo), Size: f.FLAC.StreamInfo.Size()})
		for _, b := range f.FLAC.Blocks {
			r.Blocks = append(r.Blocks, Block{Type: flac.BlockName(b.Type), Size: b.Size()})
		}
	}

	if cfg.Sum {
		sum, err := audioSum(f)
		if err != nil {
			return r, err
		}
		r.Sum = sum
	}
	return r, nil
}

// audioSum hashes the audio payload, tags excluded, so two files with the
// same audio compare equal whatever their metadata.
func audioSum(f *audiotag.File) (string, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return "", err
	}
	defer fh.Close()

	h := blake3.New()
	if _, err := io.Copy(h, io.NewSectionReader(fh, f.AudioStart, f.AudioEnd-f.AudioStart)); err != nil {
		return "", fmt.Errorf("sum %s: %w", f.Path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// cborEncMode produces deterministic output: sorted keys, shortest
// integers.
var cborEncMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("tagdump: CBOR encoder initialization failed: " + err.Error())
	}
	return em
}()

// render writes the reports in the configured format. CBOR output is a
// sequence of one item per file.
func render(w io.Writer, reports []Report, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return enc.Close()

	case "cbor":
		enc := cborEncMode.NewEncoder(w)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil

	default:
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(w)
			}
			renderText(w, r)
		}
		return nil
	}
}

func renderText(w io.Writer, r Report) {
	fmt.Fprintf(w, "%s (%s, %s)\n", r.Path, r.Format, r.TagType)
	for _, item := range r.Items {
		fmt.Fprintf(w, "  %-24s %s\n", item.Key, item.Value)
	}
	for _, p := range r.Pictures {
		fmt.Fprintf(w, "  picture: %s, %s, %d bytes\n", p.Type, p.MIMEType, p.Size)
	}
	if p := r.Properties; p != nil {
		fmt.Fprintf(w, "  audio: %s, %d Hz, %d ch, %d bit, %d kbps\n",
			p.Duration, p.SampleRate, p.Channels, p.BitDepth, p.AudioBitrate)
	}
	for _, ch := range r.Chapters {
		fmt.Fprintf(w, "  chapter %d: %s %s\n", ch.Index, ch.StartTime, ch.Title)
	}
	for _, b := range r.Blocks {
		fmt.Fprintf(w, "  block: %-14s %d bytes\n", b.Type, b.Size)
	}
	if r.Sum != "" {
		fmt.Fprintf(w, "  sum: %s\n", r.Sum)
	}
}
