package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"layeh.com/gopus"

	"github.com/keshon/server-soundboard/internal/playback"
)

// Streamer implements playback.Streamer with ffmpeg and opus.
type Streamer struct {
	ffmpeg string
}

// NewStreamer returns a Streamer running the given ffmpeg binary
// ("ffmpeg" when empty).
func NewStreamer(ffmpegPath string) *Streamer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Streamer{ffmpeg: ffmpegPath}
}

// Stream decodes path and sends it to conn until the file ends or ctx is
// cancelled. A decoder that exits with an error fails the stream even when
// part of the file was already sent.
func (s *Streamer) Stream(ctx context.Context, conn playback.Connection, path string) error {
	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return fmt.Errorf("encoder error: %w", err)
	}

	dec, err := startDecoder(ctx, s.ffmpeg, path)
	if err != nil {
		return err
	}

	send := conn.OpusSend()
	err = readFrames(dec, func(frame []int16) error {
		opus, err := encoder.Encode(frame, frameSize, frameSize*channels*2)
		if err != nil {
			return fmt.Errorf("encode error: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case send <- opus:
			return nil
		}
	})
	if err != nil {
		dec.kill()
		return err
	}

	if err := dec.wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// readFrames cuts little-endian s16 PCM into frames of frameSize samples
// per channel. A trailing partial frame is zero padded. fn must not retain
// the slice.
func readFrames(r io.Reader, fn func(frame []int16) error) error {
	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)

	for {
		n, err := io.ReadFull(r, pcmBuf)
		if errors.Is(err, io.EOF) {
			return nil
		}
		partial := errors.Is(err, io.ErrUnexpectedEOF)
		if err != nil && !partial {
			return fmt.Errorf("read error: %w", err)
		}

		clear(pcmBuf[n:])
		for i := range intBuf {
			intBuf[i] = int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2]))
		}
		if err := fn(intBuf); err != nil {
			return err
		}
		if partial {
			return nil
		}
	}
}
