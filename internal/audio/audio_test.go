package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pcm(samples ...int16) []byte {
	var buf bytes.Buffer
	for _, s := range samples {
		_ = binary.Write(&buf, binary.LittleEndian, s)
	}
	return buf.Bytes()
}

func TestReadFramesFullAndPartial(t *testing.T) {
	per := frameSize * channels
	samples := make([]int16, per+3)
	for i := range samples {
		samples[i] = int16(i - 100)
	}

	var frames [][]int16
	err := readFrames(bytes.NewReader(pcm(samples...)), func(f []int16) error {
		frames = append(frames, append([]int16(nil), f...))
		return nil
	})
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t, samples[:per], frames[0])
	assert.Equal(t, samples[per:], frames[1][:3])
	for _, v := range frames[1][3:] {
		require.Zero(t, v)
	}
}

func TestReadFramesEmpty(t *testing.T) {
	called := false
	err := readFrames(bytes.NewReader(nil), func([]int16) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestReadFramesStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	data := make([]byte, frameSize*channels*2*3)
	err := readFrames(bytes.NewReader(data), func([]int16) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestFFmpegArgs(t *testing.T) {
	args := ffmpegArgs("/sounds/bark.ogg")
	assert.Equal(t, []string{"-i", "/sounds/bark.ogg"}, args[:2])
	assert.Contains(t, args, "s16le")
	assert.Contains(t, args, "48000")
	assert.Equal(t, "pipe:1", args[len(args)-1])
}

func TestNewStreamerDefaultsBinary(t *testing.T) {
	assert.Equal(t, "ffmpeg", NewStreamer("").ffmpeg)
	assert.Equal(t, "/opt/ffmpeg", NewStreamer("/opt/ffmpeg").ffmpeg)
}

type discardConn struct {
	send chan []byte
}

func newDiscardConn() *discardConn {
	c := &discardConn{send: make(chan []byte, 64)}
	go func() {
		for range c.send {
		}
	}()
	return c
}

func (c *discardConn) ChannelID() string       { return "voice" }
func (c *discardConn) Speaking(bool) error     { return nil }
func (c *discardConn) OpusSend() chan<- []byte { return c.send }
func (c *discardConn) Disconnect() error       { return nil }

// fakeDecoder writes an executable standing in for ffmpeg.
func fakeDecoder(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return bin
}

func TestStreamReportsDecoderFailure(t *testing.T) {
	bin := fakeDecoder(t, "echo 'corrupt.ogg: Invalid data found when processing input' >&2\nexit 1")
	conn := newDiscardConn()
	defer close(conn.send)

	err := NewStreamer(bin).Stream(context.Background(), conn, "/sounds/corrupt.ogg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid data found")
	assert.Contains(t, err.Error(), "/sounds/corrupt.ogg")
}

func TestStreamReportsSilentDecoderFailure(t *testing.T) {
	bin := fakeDecoder(t, "exit 3")
	conn := newDiscardConn()
	defer close(conn.send)

	err := NewStreamer(bin).Stream(context.Background(), conn, "/sounds/bark.ogg")
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode())
}

func TestStreamCleanExitWithoutOutput(t *testing.T) {
	bin := fakeDecoder(t, "exit 0")
	conn := newDiscardConn()
	defer close(conn.send)

	assert.NoError(t, NewStreamer(bin).Stream(context.Background(), conn, "/sounds/empty.ogg"))
}

func TestStreamMissingBinary(t *testing.T) {
	conn := newDiscardConn()
	defer close(conn.send)

	err := NewStreamer(filepath.Join(t.TempDir(), "nope")).Stream(context.Background(), conn, "/sounds/bark.ogg")
	assert.Error(t, err)
}

func TestTailBufferKeepsEnd(t *testing.T) {
	tb := &tailBuffer{max: 4}
	_, _ = tb.Write([]byte("abc"))
	_, _ = tb.Write([]byte("defg"))
	assert.Equal(t, "defg", tb.String())
}
