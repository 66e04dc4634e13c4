package sink

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// Player is the beep-backed audio sink. It downloads the source URL to a
// temporary file, decodes it as MP3 and plays it through the speaker.
// Safe for concurrent use: the playback service drives it from the
// controller goroutine, async start goroutines and progress readers.
type Player struct {
	mu       sync.Mutex
	source   string
	state    State
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	level    float64
	tmpPath  string

	finishedCh chan struct{}

	httpClient *http.Client
}

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
)

// NewPlayer creates an idle sink.
func NewPlayer() *Player {
	return &Player{
		state:      Stopped,
		level:      1.0,
		finishedCh: make(chan struct{}, 1),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// SetSource assigns the stream URL for the next Load.
func (p *Player) SetSource(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = url
}

// Source returns the currently assigned stream URL.
func (p *Player) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// Load downloads and decodes the assigned source, then swaps it in as the
// loaded stream. The slow work happens off the player lock and commits
// nothing until it is done, so a Load superseded mid-download (context
// canceled, or the source reassigned for a newer track) leaves the current
// stream untouched.
func (p *Player) Load(ctx context.Context) error {
	p.mu.Lock()
	source := p.source
	p.mu.Unlock()
	if source == "" {
		return errors.New("no source assigned")
	}

	path, err := p.download(ctx, source)
	if err != nil {
		return fmt.Errorf("fetch stream: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		os.Remove(path)
		return err
	}

	streamer, format, err := decodeMP3(f)
	if err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("decode stream: %w", err)
	}

	if err := initSpeaker(format.SampleRate); err != nil {
		streamer.Close()
		os.Remove(path)
		return err
	}

	p.mu.Lock()
	if ctx.Err() != nil || p.source != source {
		p.mu.Unlock()
		streamer.Close()
		os.Remove(path)
		if err := ctx.Err(); err != nil {
			return err
		}
		return errors.New("load superseded")
	}
	p.stopLocked()
	p.streamer = streamer
	p.format = format
	p.tmpPath = path
	p.mu.Unlock()
	return nil
}

func initSpeaker(rate beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return err
	}
	speakerInitialized = true
	return nil
}

// Play starts playback of the loaded stream.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return errors.New("nothing loaded")
	}

	p.ctrl = &beep.Ctrl{Streamer: p.streamer}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   levelToVolume(p.level),
		Silent:   p.level <= 0,
	}

	finished := p.streamer
	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		// Distinguish natural end of media from Stop clearing the queue.
		if finished.Position() >= finished.Len() {
			select {
			case p.finishedCh <- struct{}{}:
			default:
			}
		}
	})))

	p.state = Playing
	return nil
}

// Pause pauses playback.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Playing || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
}

// Resume resumes paused playback.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Paused || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	p.state = Playing
}

// Stop halts playback and releases the loaded stream and its backing file.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.streamer == nil && p.state == Stopped {
		return
	}

	speakerMu.Lock()
	if speakerInitialized {
		speaker.Clear()
	}
	speakerMu.Unlock()

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	if p.tmpPath != "" {
		os.Remove(p.tmpPath)
		p.tmpPath = ""
	}

	p.ctrl = nil
	p.volume = nil
	p.state = Stopped
}

// State returns the transport state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Position returns the playback position of the loaded stream.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos)
}

// SetPosition seeks the loaded stream.
func (p *Player) SetPosition(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return
	}
	sample := p.format.SampleRate.N(d)
	if sample < 0 {
		sample = 0
	}
	if total := p.streamer.Len(); sample > total {
		sample = total
	}
	speaker.Lock()
	_ = p.streamer.Seek(sample)
	speaker.Unlock()
}

// Duration returns the total duration of the loaded stream.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// SetVolume sets the output level (0.0 to 1.0).
func (p *Player) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level

	if p.volume != nil {
		speaker.Lock()
		p.volume.Volume = levelToVolume(level)
		p.volume.Silent = level <= 0
		speaker.Unlock()
	}
}

// FinishedChan signals natural end of media.
func (p *Player) FinishedChan() <-chan struct{} {
	return p.finishedCh
}

// Close stops playback and releases resources.
func (p *Player) Close() error {
	p.Stop()
	return nil
}

// download fetches url into a temporary file and returns its path.
func (p *Player) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	tmp, err := os.CreateTemp("", "chorus-stream-*.mp3")
	if err != nil {
		return "", err
	}

	if _, err := tmp.ReadFrom(resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// levelToVolume converts a 0.0-1.0 level to beep's logarithmic volume.
// 1.0 -> 0 (unchanged), 0.5 -> -1 (half), 0.25 -> -2, 0 -> silent.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
