// SPDX-License-Identifier: MIT
/*
Package export writes the engine's sample buffer to disk as audio. The buffer
is one period of the waveform, so it is looped until the requested duration
is filled; played back at 44.1kHz a 256-sample buffer sounds at ~172Hz.
*/
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"grapher/internal/log"
)

var logger = log.Named("Export")

// Options configures a WAV export.
type Options struct {
	SampleRate int     // Frames per second
	BitDepth   int     // 8, 16, 24 or 32
	Seconds    float64 // Output duration
}

// chunkFrames bounds the size of the intermediate integer buffer.
const chunkFrames = 4096

// Frames returns the number of frames an export with opts contains.
func (o Options) Frames() int {
	return int(math.Round(o.Seconds * float64(o.SampleRate)))
}

func (o Options) validate() error {
	if o.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", o.SampleRate)
	}
	switch o.BitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("unsupported bit depth %d", o.BitDepth)
	}
	if o.Frames() < 1 {
		return fmt.Errorf("duration %gs is shorter than one frame", o.Seconds)
	}
	return nil
}

// WriteWAV encodes samples, looped to the requested duration, as mono PCM.
// Values are clamped to [-1, 1].
func WriteWAV(w io.WriteSeeker, samples []float64, opts Options) error {
	if len(samples) == 0 {
		return errors.New("no samples to export")
	}
	if err := opts.validate(); err != nil {
		return err
	}

	enc := wav.NewEncoder(w, opts.SampleRate, opts.BitDepth, 1, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  opts.SampleRate,
		},
		SourceBitDepth: opts.BitDepth,
	}

	total := opts.Frames()
	data := make([]int, min(chunkFrames, total))
	for written := 0; written < total; {
		n := min(len(data), total-written)
		for i := range n {
			data[i] = quantize(samples[(written+i)%len(samples)], opts.BitDepth)
		}
		buf.Data = data[:n]
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("failed to write wav data: %w", err)
		}
		written += n
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav: %w", err)
	}
	return nil
}

// WriteFile creates path and writes the WAV into it.
func WriteFile(path string, samples []float64, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := WriteWAV(f, samples, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	logger.Infof("Wrote %s (%d frames, %d Hz, %d-bit)", path, opts.Frames(), opts.SampleRate, opts.BitDepth)
	return nil
}

// quantize maps v in [-1, 1] to a signed PCM integer. 8-bit WAV is unsigned
// and centered on 128.
func quantize(v float64, bitDepth int) int {
	v = max(-1, min(1, v))
	full := float64(int64(1)<<(bitDepth-1) - 1)
	q := int(math.Round(v * full))
	if bitDepth == 8 {
		q += 128
	}
	return q
}
