package signaling

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/hardchats/mesh_core/pkg/utils"
)

const (
	// Time allowed to write a frame to the relay.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong before the connection is
	// considered dead.
	pongWait = 60 * time.Second

	// Ping period; must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// TransportConfig holds signaling channel settings
type TransportConfig struct {
	// Relay websocket endpoint, e.g. wss://host/ws
	URL string

	// Reconnect backoff: delay = min(BackoffBase * 2^attempt, BackoffCap)
	BackoffBase time.Duration
	BackoffCap  time.Duration

	// Recovery gives up permanently after this many attempts
	MaxReconnectAttempts int
}

// DefaultTransportConfig returns the relay defaults
func DefaultTransportConfig(url string) TransportConfig {
	return TransportConfig{
		URL:                  url,
		BackoffBase:          time.Second,
		BackoffCap:           30 * time.Second,
		MaxReconnectAttempts: 10,
	}
}

// Credentials are the fresh-join inputs. The captcha answer is only
// consulted on the first join; resumption uses the token instead.
type Credentials struct {
	Username      string
	CaptchaID     string
	CaptchaAnswer string
}

// Transport maintains one logical connection to the relay. It decodes every
// inbound frame into an Envelope, owns the reconnect backoff policy and the
// resumption token, and silently drops sends while the channel is down.
type Transport struct {
	mu     sync.Mutex
	cfg    TransportConfig
	clock  clock.Clock
	log    *utils.Logger
	dialer *websocket.Dialer

	conn  *websocket.Conn
	creds Credentials

	// Resumption token from the first successful join. Empty until the
	// roster snapshot arrives, cleared on Reset.
	token string

	attempts       int
	policy         *backoff.ExponentialBackOff
	reconnectTimer *clock.Timer
	intentional    bool
	closed         bool

	// Callbacks. Set before Connect; not guarded afterwards.
	onEnvelope  func(Envelope)
	onReconnect func(attempt int, delay time.Duration)
	onGaveUp    func()
}

// TransportOption configures a Transport
type TransportOption func(*Transport)

// WithClock sets the clock used for reconnect scheduling (mock in tests)
func WithClock(c clock.Clock) TransportOption {
	return func(t *Transport) {
		t.clock = c
	}
}

// WithDialer sets a custom websocket dialer
func WithDialer(d *websocket.Dialer) TransportOption {
	return func(t *Transport) {
		t.dialer = d
	}
}

// NewTransport creates a transport for the given relay endpoint
func NewTransport(cfg TransportConfig, opts ...TransportOption) *Transport {
	t := &Transport{
		cfg:    cfg,
		clock:  clock.New(),
		log:    utils.NewLogger("signaling"),
		dialer: websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.policy = newBackoffPolicy(cfg)
	return t
}

func newBackoffPolicy(cfg TransportConfig) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.BackoffBase
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = cfg.BackoffCap
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// OnEnvelope registers the inbound envelope handler
func (t *Transport) OnEnvelope(fn func(Envelope)) {
	t.onEnvelope = fn
}

// OnReconnect registers a callback fired when a reconnect is scheduled
func (t *Transport) OnReconnect(fn func(attempt int, delay time.Duration)) {
	t.onReconnect = fn
}

// OnGaveUp registers a callback fired when recovery stops permanently and
// the user must re-enter the room
func (t *Transport) OnGaveUp(fn func()) {
	t.onGaveUp = fn
}

// Token returns the current resumption token, empty before the first
// successful join
func (t *Transport) Token() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

// Connect opens the relay connection and sends either a join (fresh
// credentials) or, if a resumption token is held, a reconnect envelope.
func (t *Transport) Connect(creds Credentials) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrTransportClosed
	}
	t.creds = creds
	t.intentional = false
	t.mu.Unlock()

	return t.dial()
}

func (t *Transport) dial() error {
	conn, _, err := t.dialer.Dial(t.cfg.URL, nil)
	if err != nil {
		t.log.Warn("dial %s failed: %v", t.cfg.URL, err)
		t.scheduleReconnect()
		return err
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		conn.Close()
		return ErrTransportClosed
	}
	t.conn = conn
	t.attempts = 0
	t.policy.Reset()
	token := t.token
	creds := t.creds
	t.mu.Unlock()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	var hello Envelope
	if token != "" {
		t.log.Info("resuming session with token")
		hello = Reconnect{Token: token, Username: creds.Username}
	} else {
		hello = Join{
			Username:      creds.Username,
			CaptchaID:     creds.CaptchaID,
			CaptchaAnswer: creds.CaptchaAnswer,
		}
	}
	if err := t.write(conn, hello); err != nil {
		conn.Close()
		return err
	}

	go t.readLoop(conn)
	go t.pingLoop(conn)
	return nil
}

// Send delivers an envelope to the relay. Fire and forget: it is a no-op
// while the channel is down, and callers must not assume delivery.
func (t *Transport) Send(env Envelope) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return
	}
	if err := t.write(conn, env); err != nil {
		t.log.Warn("send %s failed: %v", env.Kind(), err)
	}
}

func (t *Transport) write(conn *websocket.Conn, env Envelope) error {
	data, err := Encode(env)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (t *Transport) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.handleClose(conn, err)
			return
		}
		env, err := Decode(data)
		if err != nil {
			// A malformed frame never aborts the channel.
			t.log.Warn("dropping inbound frame: %v", err)
			continue
		}
		t.observe(env)
		if t.onEnvelope != nil {
			t.onEnvelope(env)
		}
	}
}

func (t *Transport) pingLoop(conn *websocket.Conn) {
	ticker := t.clock.Ticker(pingPeriod)
	defer ticker.Stop()
	for range ticker.C {
		t.mu.Lock()
		current := t.conn == conn
		if current {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				t.mu.Unlock()
				return
			}
		}
		t.mu.Unlock()
		if !current {
			return
		}
	}
}

// observe captures transport-owned state from inbound envelopes before they
// are handed to the orchestration layer.
func (t *Transport) observe(env Envelope) {
	switch e := env.(type) {
	case Users:
		if e.ReconnectToken != "" {
			t.mu.Lock()
			t.token = e.ReconnectToken
			t.mu.Unlock()
		}
	case ErrorMessage:
		// Join rejection is fatal for the attempt: drop the token so the
		// close path returns to re-entry instead of retrying.
		t.mu.Lock()
		t.token = ""
		t.mu.Unlock()
	}
}

func (t *Transport) handleClose(conn *websocket.Conn, err error) {
	t.mu.Lock()
	if t.conn == conn {
		t.conn = nil
	}
	intentional := t.intentional || t.closed
	token := t.token
	t.mu.Unlock()
	conn.Close()

	if intentional {
		return
	}
	t.log.Info("signaling channel lost: %v", err)

	// Never joined successfully: no recovery, back to re-entry.
	if token == "" {
		if t.onGaveUp != nil {
			t.onGaveUp()
		}
		return
	}
	t.scheduleReconnect()
}

func (t *Transport) scheduleReconnect() {
	t.mu.Lock()
	if t.closed || t.intentional || t.token == "" {
		t.mu.Unlock()
		return
	}
	if t.attempts >= t.cfg.MaxReconnectAttempts {
		t.mu.Unlock()
		t.log.Warn("max reconnect attempts reached, giving up")
		if t.onGaveUp != nil {
			t.onGaveUp()
		}
		return
	}
	delay := t.policy.NextBackOff()
	t.attempts++
	attempt := t.attempts
	t.reconnectTimer = t.clock.AfterFunc(delay, func() {
		t.mu.Lock()
		stale := t.closed || t.intentional
		t.mu.Unlock()
		if stale {
			return
		}
		t.dial()
	})
	t.mu.Unlock()

	t.log.Info("reconnecting in %v (attempt %d/%d)", delay, attempt, t.cfg.MaxReconnectAttempts)
	if t.onReconnect != nil {
		t.onReconnect(attempt, delay)
	}
}

// Attempts returns the reconnect attempt counter
func (t *Transport) Attempts() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attempts
}

// Reset clears the resumption token and attempt counter ahead of a fresh
// (non-resumed) join.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
	t.attempts = 0
	t.policy.Reset()
}

// Close tears the channel down intentionally; no recovery is attempted.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.intentional = true
	conn := t.conn
	t.conn = nil
	timer := t.reconnectTimer
	t.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if conn != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		return conn.Close()
	}
	return nil
}
