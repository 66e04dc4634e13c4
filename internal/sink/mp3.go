package sink

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	mp3 "github.com/llehouerou/go-mp3"
)

// mp3Streamer wraps llehouerou/go-mp3 to implement beep.StreamSeekCloser.
type mp3Streamer struct {
	decoder *mp3.Decoder
	closer  io.Closer
	err     error
	readBuf []byte
}

// decodeMP3 decodes an MP3 stream and returns a seekable beep streamer with
// its audio format.
func decodeMP3(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	decoder, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2, // go-mp3 always outputs stereo
		Precision:   2, // 16-bit
	}

	s := &mp3Streamer{
		decoder: decoder,
		closer:  rc,
		readBuf: make([]byte, 8192),
	}
	return s, format, nil
}

func (s *mp3Streamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}

	// 4 bytes per stereo 16-bit sample
	bytesNeeded := len(samples) * 4
	if len(s.readBuf) < bytesNeeded {
		s.readBuf = make([]byte, bytesNeeded)
	}

	bytesRead, err := io.ReadFull(s.decoder, s.readBuf[:bytesNeeded])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.err = err
		return 0, false
	}

	samplesRead := bytesRead / 4
	if samplesRead == 0 {
		return 0, false
	}

	for i := 0; i < samplesRead && i < len(samples); i++ {
		offset := i * 4
		if offset+4 <= bytesRead {
			left := int16(binary.LittleEndian.Uint16(s.readBuf[offset:]))    //nolint:gosec // audio samples
			right := int16(binary.LittleEndian.Uint16(s.readBuf[offset+2:])) //nolint:gosec // audio samples
			samples[i][0] = float64(left) / 32768.0
			samples[i][1] = float64(right) / 32768.0
		}
		n++
	}
	return n, true
}

func (s *mp3Streamer) Err() error {
	return s.err
}

func (s *mp3Streamer) Len() int {
	count := s.decoder.SampleCount()
	if count < 0 {
		return 0
	}
	return int(count)
}

func (s *mp3Streamer) Position() int {
	return int(s.decoder.SamplePosition())
}

func (s *mp3Streamer) Seek(p int) error {
	if p < 0 {
		p = 0
	}
	if total := s.Len(); p > total {
		p = total
	}
	if err := s.decoder.SeekToSample(int64(p)); err != nil {
		return err
	}
	s.err = nil
	return nil
}

func (s *mp3Streamer) Close() error {
	return s.closer.Close()
}
