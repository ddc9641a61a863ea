package player

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// go-mp3 always emits interleaved 16-bit little-endian stereo.
const bytesPerFrame = 4

// mp3Stream adapts a go-mp3 decoder to beep.StreamSeekCloser so that
// sample-accurate seeks land on verse boundaries.
type mp3Stream struct {
	dec    *mp3.Decoder
	closer io.Closer
	buf    []byte
	err    error
}

// decodeMP3 wraps rc in a seekable beep stream. rc is closed by the stream.
func decodeMP3(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	dec, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}
	if dec.SampleRate() == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(dec.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
	return &mp3Stream{dec: dec, closer: rc, buf: make([]byte, 8192)}, format, nil
}

func (s *mp3Stream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}

	want := len(samples) * bytesPerFrame
	if cap(s.buf) < want {
		s.buf = make([]byte, want)
	}
	buf := s.buf[:want]

	read, err := io.ReadFull(s.dec, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.err = err
		return 0, false
	}

	n := pcmToFloat(samples, buf[:read])
	return n, n > 0
}

// pcmToFloat converts complete 16-bit stereo frames in pcm into dst and
// returns the number of frames written.
func pcmToFloat(dst [][2]float64, pcm []byte) int {
	n := min(len(pcm)/bytesPerFrame, len(dst))
	for i := range n {
		frame := pcm[i*bytesPerFrame:]
		left := int16(binary.LittleEndian.Uint16(frame))      //nolint:gosec // audio samples
		right := int16(binary.LittleEndian.Uint16(frame[2:])) //nolint:gosec // audio samples
		dst[i][0] = float64(left) / 32768.0
		dst[i][1] = float64(right) / 32768.0
	}
	return n
}

func (s *mp3Stream) Err() error { return s.err }

func (s *mp3Stream) Len() int {
	return int(max(s.dec.SampleCount(), 0))
}

func (s *mp3Stream) Position() int {
	return int(s.dec.SamplePosition())
}

func (s *mp3Stream) Seek(p int) error {
	p = min(max(p, 0), s.Len())
	if err := s.dec.SeekToSample(int64(p)); err != nil {
		return err
	}
	s.err = nil
	return nil
}

func (s *mp3Stream) Close() error {
	return s.closer.Close()
}
