// Speaking detection. The meter mirrors a 256-bin frequency analyser:
// magnitudes on a 0-255 scale, speaking when the frame average crosses a
// fixed threshold. No hysteresis window; debounce comes from the natural
// sample rate. The result is presentation-only and never feeds back into
// connection logic.
package audio

import (
	"math"
	"sync"
)

// DefaultThreshold is the frame-average magnitude above which a
// participant counts as speaking, on the 0-255 scale.
const DefaultThreshold = 20

// Meter tracks a speaking flag for one audio source. Each source gets its
// own Meter: one for the local capture, one per remote track.
type Meter struct {
	mu        sync.Mutex
	threshold float64
	level     float64
	speaking  bool
	onChange  func(speaking bool)
}

// NewMeter creates a meter. A non-positive threshold selects the default.
func NewMeter(threshold float64) *Meter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Meter{threshold: threshold}
}

// OnChange registers a callback fired on every speaking transition
func (m *Meter) OnChange(fn func(speaking bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Push feeds one frame of 0-255 magnitudes and returns the speaking flag
func (m *Meter) Push(magnitudes []byte) bool {
	if len(magnitudes) == 0 {
		return m.Speaking()
	}
	var sum float64
	for _, v := range magnitudes {
		sum += float64(v)
	}
	return m.update(sum / float64(len(magnitudes)))
}

// PushPCM feeds one frame of 16-bit PCM samples, mapping the mean absolute
// amplitude onto the 0-255 magnitude scale
func (m *Meter) PushPCM(samples []int16) bool {
	if len(samples) == 0 {
		return m.Speaking()
	}
	var sum float64
	for _, s := range samples {
		sum += math.Abs(float64(s))
	}
	avg := sum / float64(len(samples))
	return m.update(avg * 255 / 32768)
}

func (m *Meter) update(level float64) bool {
	m.mu.Lock()
	m.level = level
	speaking := level > m.threshold
	changed := speaking != m.speaking
	m.speaking = speaking
	fn := m.onChange
	m.mu.Unlock()

	if changed && fn != nil {
		fn(speaking)
	}
	return speaking
}

// Speaking returns the current speaking flag
func (m *Meter) Speaking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speaking
}

// Level returns the last frame-average magnitude
func (m *Meter) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}
