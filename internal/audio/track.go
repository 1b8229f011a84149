package audio

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

var ErrUnsupported = errors.New("unsupported audio format")

var (
	speakerOnce sync.Once
	speakerErr  error
	speakerRate beep.SampleRate
)

// Track is a decoded song played through the speaker.
// Its playback position is the clock a session is judged against.
type Track struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl

	queued atomic.Bool // The streamer is in the speaker
	ended  atomic.Bool
}

func decode(file string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(path.Ext(file)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	case ".wav":
		return wav.Decode(f)
	}
	return nil, beep.Format{}, fmt.Errorf("%v: %w", file, ErrUnsupported)
}

// Open decodes an mp3, ogg or wav file
func Open(file string) (*Track, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	streamer, format, err := decode(file, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Track{
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: streamer, Paused: true},
	}, nil
}

// Init opens the speaker at the track's sample rate. Only the first
// track to call Init decides the rate, later tracks are not resampled
// and must share it.
func (t *Track) Init() error {
	speakerOnce.Do(func() {
		speakerRate = t.format.SampleRate
		speakerErr = speaker.Init(t.format.SampleRate, t.format.SampleRate.N(time.Second/60))
	})
	if nil != speakerErr {
		return speakerErr
	}
	if speakerRate != t.format.SampleRate {
		return fmt.Errorf("speaker runs at %v Hz, track at %v Hz", speakerRate, t.format.SampleRate)
	}
	return nil
}

func (t *Track) Position() (time.Duration, bool) {
	speaker.Lock()
	p := t.streamer.Position()
	speaker.Unlock()
	return t.format.SampleRate.D(p), true
}

func (t *Track) Duration() (time.Duration, bool) {
	n := t.streamer.Len()
	if n <= 0 {
		return 0, false
	}
	return t.format.SampleRate.D(n), true
}

func (t *Track) Ended() bool {
	return t.ended.Load()
}

func (t *Track) Play() error {
	if err := t.Init(); nil != err {
		return err
	}
	speaker.Lock()
	t.ctrl.Paused = false
	speaker.Unlock()

	if t.queued.CompareAndSwap(false, true) {
		t.ended.Store(false)
		speaker.Play(beep.Seq(t.ctrl, beep.Callback(func() {
			t.ended.Store(true)
			t.queued.Store(false)
		})))
	}
	return nil
}

func (t *Track) Pause() {
	speaker.Lock()
	t.ctrl.Paused = true
	speaker.Unlock()
}

func (t *Track) Reset() error {
	speaker.Lock()
	defer speaker.Unlock()
	t.ended.Store(false)
	return t.streamer.Seek(0)
}

func (t *Track) Close() error {
	t.Pause()
	speaker.Lock()
	defer speaker.Unlock()
	return t.streamer.Close()
}
