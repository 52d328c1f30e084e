// Package audio decodes sound files with ffmpeg and streams them to a voice
// connection as opus frames.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz

	maxStderr = 4096
)

func ffmpegArgs(path string) []string {
	return []string{
		"-i", path,
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	}
}

// decoder is a running ffmpeg process producing raw PCM on Read.
type decoder struct {
	cmd    *exec.Cmd
	out    io.ReadCloser
	stderr *tailBuffer
	path   string
}

// startDecoder starts ffmpeg on path. The process is killed when ctx ends.
func startDecoder(ctx context.Context, bin, path string) (*decoder, error) {
	cmd := exec.CommandContext(ctx, bin, ffmpegArgs(path)...)
	stderr := &tailBuffer{max: maxStderr}
	cmd.Stderr = stderr

	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("command start error: %w", err)
	}
	return &decoder{cmd: cmd, out: out, stderr: stderr, path: path}, nil
}

func (d *decoder) Read(p []byte) (int, error) {
	return d.out.Read(p)
}

// wait reaps ffmpeg once its output is drained and reports a failed exit
// together with what ffmpeg printed.
func (d *decoder) wait() error {
	err := d.cmd.Wait()
	if err == nil {
		return nil
	}
	if msg := strings.TrimSpace(d.stderr.String()); msg != "" {
		return fmt.Errorf("ffmpeg failed on %s: %w: %s", d.path, err, msg)
	}
	return fmt.Errorf("ffmpeg failed on %s: %w", d.path, err)
}

// kill stops ffmpeg before its output ended.
func (d *decoder) kill() {
	if d.cmd.Process != nil {
		_ = d.cmd.Process.Kill()
	}
	if err := d.cmd.Wait(); err != nil {
		log.Debug().Err(err).Str("asset", d.path).Msg("[Audio] ffmpeg killed")
	}
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	buf bytes.Buffer
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	t.buf.Write(p)
	if over := t.buf.Len() - t.max; over > 0 {
		t.buf.Next(over)
	}
	return n, nil
}

func (t *tailBuffer) String() string {
	return t.buf.String()
}
