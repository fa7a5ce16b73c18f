// SPDX-License-Identifier: MIT
package cmd

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/go-audio/wav"

	"grapher/internal/backend/record"
	"grapher/internal/canvas"
	"grapher/internal/config"
	"grapher/internal/transport"
	"grapher/pkg/utils"
)

// run executes the command tree in an empty working directory so no stray
// grapher.yaml is picked up.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func decodePNG(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return cfg.Width, cfg.Height
}

func TestRenderBackends(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"raster", []string{"--backend", "raster"}},
		{"raster supersampled", []string{"--backend", "raster", "--supersample", "3"}},
		{"vector", []string{"--backend", "vector"}},
		{"signal layout", []string{"--layout", "signal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "frame.png")
			args := append([]string{"render", "--width", "120", "--height", "60", "-o", out, "-n", "64"}, tt.args...)
			if _, err := run(t, args...); err != nil {
				t.Fatalf("render: %v", err)
			}
			if w, h := decodePNG(t, out); w != 120 || h != 60 {
				t.Errorf("image = %dx%d, want 120x60", w, h)
			}
		})
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")

	_, err := run(t, "render", "--width", "0", "-o", out)
	if !errors.Is(err, canvas.ErrInvalidInput) {
		t.Errorf("zero width: err = %v, want ErrInvalidInput", err)
	}

	_, err = run(t, "render", "--backend", "gdi", "-o", out)
	if !errors.Is(err, canvas.ErrInvalidInput) {
		t.Errorf("unknown backend: err = %v, want ErrInvalidInput", err)
	}

	_, err = run(t, "render", "--layout", "bars", "-o", out)
	if !errors.Is(err, canvas.ErrInvalidInput) {
		t.Errorf("unknown layout: err = %v, want ErrInvalidInput", err)
	}

	if _, err := run(t, "render", "--length", "0", "-o", out); err == nil {
		t.Error("zero length: expected a validation error")
	}
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "grapher.yaml")
	out := filepath.Join(dir, "frame.png")
	yaml := "signal:\n  length: 32\nrender:\n  width: 50\n  height: 40\n  output: " + out + "\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "render", "--config", cfgPath, "--height", "30"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if w, h := decodePNG(t, out); w != 50 || h != 30 {
		t.Errorf("image = %dx%d, want 50x30", w, h)
	}
}

func TestExport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tone.wav")
	if _, err := run(t, "export", "-o", out, "--seconds", "0.25", "--source", "sine:4"); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if want := 44100 / 4; len(buf.Data) != want {
		t.Errorf("frames = %d, want %d", len(buf.Data), want)
	}
}

func TestVerify(t *testing.T) {
	out, err := run(t, "verify", "-n", "128", "--window", "hann")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !strings.Contains(out, "N=128") || !strings.Contains(out, "window=hann") {
		t.Errorf("unexpected output %q", out)
	}

	if _, err := run(t, "verify", "--tolerance", "-1"); err == nil {
		t.Error("expected failure with a negative tolerance")
	}
}

func TestSourceCycle(t *testing.T) {
	o := &options{cfg: config.NewConfig()}
	o.cfg.Signal.Source = "square"

	got := o.sourceCycle()
	want := []string{"square", "default", "sine:1", "sine:8"}
	if !slices.Equal(got, want) {
		t.Errorf("sourceCycle() = %v, want %v", got, want)
	}
}

func TestServerPublishesFrames(t *testing.T) {
	t.Chdir(t.TempDir())
	opts := &options{}
	if err := opts.load(NewRootCommand()); err != nil {
		t.Fatalf("load: %v", err)
	}
	e, err := opts.newEngine()
	if err != nil {
		t.Fatal(err)
	}

	mock := &utils.MockTransport{}
	srv := &server{
		engine:     e,
		recorder:   record.New(200, 100),
		transports: []transport.Transport{mock},
	}

	for range 3 {
		if err := srv.publish(); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	if len(mock.Sent) != 3 {
		t.Fatalf("sent %d frames, want 3", len(mock.Sent))
	}

	first := mock.Sent[0].(transport.Frame)
	last := mock.Last().(transport.Frame)
	if first.Seq != 1 || last.Seq != 3 || last.Width != 200 {
		t.Errorf("unexpected frames %+v / %+v", first.Seq, last.Seq)
	}
	// 1 clear + N signal + N magnitude + N phase lines.
	if want := 1 + 3*e.Length(); len(last.Ops) != want {
		t.Errorf("ops = %d, want %d", len(last.Ops), want)
	}
	// Frames own their ops; later renders do not rewrite earlier frames.
	if &first.Ops[0] == &last.Ops[0] {
		t.Error("frames share the recorder's op slice")
	}

	if err := srv.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if !mock.Closed {
		t.Error("transport not closed")
	}
}
