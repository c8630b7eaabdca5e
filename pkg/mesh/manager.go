package mesh

import (
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"

	"github.com/hardchats/mesh_core/pkg/audio"
	"github.com/hardchats/mesh_core/pkg/signaling"
	"github.com/hardchats/mesh_core/pkg/utils"
)

// Manager owns the full-mesh peer sessions for one room: one connection
// record per remote participant, the candidate buffer, renegotiation and
// recovery, and health sampling. All roster and record-table mutation
// happens under its lock; delayed continuations re-check record identity
// before touching anything.
type Manager struct {
	cfg       Config
	clock     clock.Clock
	log       *utils.Logger
	api       *webrtc.API
	transport *signaling.Transport

	mu      sync.Mutex
	session *Session
	records map[string]*peerRecord
	pending *candidateBuffer
	closed  bool

	localAudio  webrtc.TrackLocal
	localCamera webrtc.TrackLocal
	localScreen webrtc.TrackLocal

	localMeter *audio.Meter

	// Callbacks toward the UI layer. Set before Join.
	onRoster   func()
	onQuality  func(participantID string, sample HealthSample)
	onSpeaking func(participantID string, speaking bool)
	onError    func(message string)
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithManagerClock sets the clock driving every timer (mock in tests)
func WithManagerClock(c clock.Clock) ManagerOption {
	return func(m *Manager) {
		m.clock = c
	}
}

// WithWebRTCAPI sets a custom WebRTC API (for tests or custom engines)
func WithWebRTCAPI(api *webrtc.API) ManagerOption {
	return func(m *Manager) {
		m.api = api
	}
}

// NewManager creates the session manager. The transport is required;
// localAudio is attached to every record and may be nil in signaling-only
// deployments.
func NewManager(cfg Config, transport *signaling.Transport, localAudio webrtc.TrackLocal, opts ...ManagerOption) (*Manager, error) {
	if transport == nil {
		return nil, ErrNoTransport
	}
	m := &Manager{
		cfg:        cfg,
		clock:      clock.New(),
		log:        utils.NewLogger("mesh"),
		transport:  transport,
		records:    make(map[string]*peerRecord),
		pending:    newCandidateBuffer(),
		localAudio: localAudio,
		localMeter: audio.NewMeter(cfg.SpeakingThreshold),
	}
	for _, opt := range opts {
		opt(m)
	}
	if cfg.Debug {
		m.log.SetLevel(utils.LogLevelDebug)
	}
	if m.api == nil {
		api, err := newWebRTCAPI(cfg)
		if err != nil {
			return nil, err
		}
		m.api = api
	}
	m.localMeter.OnChange(func(speaking bool) {
		m.mu.Lock()
		if m.session != nil {
			m.session.local.Speaking = speaking
		}
		fn := m.onSpeaking
		m.mu.Unlock()
		if fn != nil {
			fn("local", speaking)
		}
	})
	transport.OnEnvelope(m.HandleEnvelope)
	return m, nil
}

// SetCallbacks registers the UI-facing callbacks
func (m *Manager) SetCallbacks(
	onRoster func(),
	onQuality func(participantID string, sample HealthSample),
	onSpeaking func(participantID string, speaking bool),
	onError func(message string),
) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRoster = onRoster
	m.onQuality = onQuality
	m.onSpeaking = onSpeaking
	m.onError = onError
}

// LocalMeter is the speaking meter for the local capture stream. The
// device subsystem pushes frames into it.
func (m *Manager) LocalMeter() *audio.Meter {
	return m.localMeter
}

// Join starts a fresh session: resets any held resumption state and opens
// the signaling channel with the given credentials.
func (m *Manager) Join(creds signaling.Credentials) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	m.session = newSession(creds.Username)
	m.mu.Unlock()

	m.transport.Reset()
	return m.transport.Connect(creds)
}

// HandleEnvelope dispatches one decoded signaling envelope. Malformed or
// unexpected envelopes are logged and skipped; they never abort processing
// of later ones.
func (m *Manager) HandleEnvelope(env signaling.Envelope) {
	switch e := env.(type) {
	case signaling.Users:
		m.handleRoster(e)
	case signaling.UserJoined:
		m.handleUserJoined(e)
	case signaling.UserLeft:
		m.RemoveParticipant(e.ID)
	case signaling.Offer:
		m.HandleOffer(e.From, e.Username, e.SDP)
	case signaling.Answer:
		m.HandleAnswer(e.From, e.SDP)
	case signaling.Candidate:
		m.HandleCandidate(e.From, toICEInit(e.Candidate))
	case signaling.MicStatus:
		m.setMediaFlag(e.ID, func(p *Participant) { p.MicOn = e.Enabled })
	case signaling.CameraStatus:
		m.setMediaFlag(e.ID, func(p *Participant) { p.CamOn = e.Enabled })
	case signaling.ScreenStatus:
		m.setMediaFlag(e.ID, func(p *Participant) { p.ScreenOn = e.Enabled })
	case signaling.ErrorMessage:
		m.log.Warn("join rejected: %s", e.Message)
		m.mu.Lock()
		fn := m.onError
		m.mu.Unlock()
		if fn != nil {
			fn(e.Message)
		}
	default:
		m.log.Debug("ignoring %s envelope", env.Kind())
	}
}

// handleRoster processes the users snapshot. On a resumed session every
// stale record is torn down first: connection objects never survive a
// signaling gap, only the local participant's media flags do.
func (m *Manager) handleRoster(u signaling.Users) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if m.session == nil {
		m.session = newSession("")
	}
	var stale []*peerRecord
	if m.session.MyID != "" {
		m.log.Info("session resumed, rebuilding %d peer connections", len(u.Users))
		for id, rec := range m.records {
			stale = append(stale, rec)
			delete(m.records, id)
		}
		m.pending.clear()
		m.session.reset()
	}
	m.session.MyID = u.You
	m.session.local.ID = u.You
	m.session.SessionStart = time.Unix(int64(u.SessionStart), 0)
	m.session.MaxCameras = u.MaxCameras
	for _, user := range u.Users {
		m.session.participants[user.ID] = &Participant{
			ID:       user.ID,
			Username: user.Username,
			CamOn:    user.CamOn,
			MicOn:    user.MicOn,
			ScreenOn: user.ScreenOn,
		}
	}
	users := u.Users
	m.mu.Unlock()

	for _, rec := range stale {
		rec.release()
	}
	for _, user := range users {
		if err := m.CreateSession(user.ID, user.Username, true); err != nil {
			m.log.Error("failed to create session for %s: %v", user.ID, err)
		}
	}
	m.notifyRoster()
}

func (m *Manager) handleUserJoined(e signaling.UserJoined) {
	m.mu.Lock()
	if m.session == nil || m.closed {
		m.mu.Unlock()
		return
	}
	m.session.participants[e.ID] = &Participant{
		ID:       e.ID,
		Username: e.Username,
		CamOn:    e.CamOn,
		MicOn:    e.MicOn,
		ScreenOn: e.ScreenOn,
	}
	m.mu.Unlock()
	m.log.Info("%s joined the room", e.Username)
	// The newcomer initiates; this side waits for their offer.
	m.notifyRoster()
}

// CreateSession builds the connection record for a participant. Any
// existing record for the id is fully closed and discarded first, making
// the call idempotent under duplicate invocation: exactly one record
// exists per id when it returns.
func (m *Manager) CreateSession(participantID, displayName string, isInitiator bool) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	old := m.records[participantID]
	delete(m.records, participantID)
	m.mu.Unlock()
	if old != nil {
		old.release()
	}

	pc, err := m.api.NewPeerConnection(m.cfg.rtcConfiguration())
	if err != nil {
		return err
	}

	rec := &peerRecord{
		id:        participantID,
		username:  displayName,
		gen:       uuid.NewString(),
		pc:        pc,
		timers:    newTimerSet(m.clock),
		done:      make(chan struct{}),
		state:     StateNew,
		initiator: isInitiator,
	}

	if err := m.attachLocalTracks(rec); err != nil {
		rec.release()
		return err
	}
	m.wireRecord(rec)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		rec.release()
		return ErrManagerClosed
	}
	if interloper := m.records[participantID]; interloper != nil {
		// Lost a race with a concurrent create for the same id; the table
		// stays unique either way.
		delete(m.records, participantID)
		defer interloper.release()
	}
	m.records[participantID] = rec
	m.mu.Unlock()

	// Establishment supervision: an unconnected record is discarded and
	// rebuilt as initiator, not patched.
	rec.timers.set(timerEstablish, m.cfg.EstablishTimeout, func() {
		if !m.isCurrent(rec) {
			return
		}
		state := rec.pc.ConnectionState()
		if state == webrtc.PeerConnectionStateConnected {
			return
		}
		m.log.Warn("peer %s connection timed out (state %s), rebuilding", rec.id, state)
		if err := m.CreateSession(rec.id, rec.username, true); err != nil {
			m.log.Error("rebuild for %s failed: %v", rec.id, err)
		}
	})

	if isInitiator {
		// One-way video receive so the remote camera or screen can arrive
		// without a local video track.
		if _, err := pc.AddTransceiverFromKind(webrtc.RTPCodecTypeVideo, webrtc.RTPTransceiverInit{
			Direction: webrtc.RTPTransceiverDirectionRecvonly,
		}); err != nil {
			m.log.Error("add recvonly transceiver for %s: %v", participantID, err)
		}
		rec.setState(StateNegotiating)
		m.sendOffer(rec, false)
	}
	return nil
}

// attachLocalTracks adds the active local tracks to a new record: audio
// always, camera and screen only while enabled. The screen sender is kept
// for precise removal later.
func (m *Manager) attachLocalTracks(rec *peerRecord) error {
	m.mu.Lock()
	audioTrack := m.localAudio
	camera := m.localCamera
	screen := m.localScreen
	var camOn, screenOn bool
	if m.session != nil {
		camOn = m.session.local.CamOn
		screenOn = m.session.local.ScreenOn
	}
	m.mu.Unlock()

	if audioTrack != nil {
		if _, err := rec.pc.AddTrack(audioTrack); err != nil {
			return err
		}
	}
	if camOn && camera != nil {
		if _, err := rec.pc.AddTrack(camera); err != nil {
			m.log.Warn("attach camera track for %s: %v", rec.id, err)
		}
	}
	if screenOn && screen != nil {
		sender, err := rec.pc.AddTrack(screen)
		if err != nil {
			m.log.Warn("attach screen track for %s: %v", rec.id, err)
		} else {
			rec.mu.Lock()
			rec.screenSender = sender
			rec.mu.Unlock()
		}
	}
	return nil
}

// wireRecord installs the transport-driven event handlers. Every handler
// verifies the record is still the live one for its id before mutating
// shared state; stale callbacks from a replaced record are dropped.
func (m *Manager) wireRecord(rec *peerRecord) {
	pc := rec.pc
	id := rec.id

	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil || !m.isCurrent(rec) {
			return
		}
		m.transport.Send(signaling.Candidate{
			Target:    id,
			Candidate: fromICEInit(c.ToJSON()),
		})
	})

	pc.OnTrack(func(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
		if !m.isCurrent(rec) {
			return
		}
		m.log.Debug("got remote %s track from %s", track.Kind(), id)
		if track.Kind() == webrtc.RTPCodecTypeAudio {
			det := audio.NewDetector(audioLevelExtensionID(receiver), m.cfg.SpeakingThreshold)
			det.Meter().OnChange(func(speaking bool) {
				if !m.isCurrent(rec) {
					return
				}
				m.setSpeaking(id, speaking)
			})
			go m.readAudio(rec, track, det)
		} else {
			// Inbound video means the remote camera or screen is live.
			m.setMediaFlag(id, func(p *Participant) { p.CamOn = true })
		}
	})

	pc.OnICEConnectionStateChange(func(state webrtc.ICEConnectionState) {
		if !m.isCurrent(rec) {
			return
		}
		m.log.Debug("peer %s ICE connection: %s", id, state)
		switch state {
		case webrtc.ICEConnectionStateConnected, webrtc.ICEConnectionStateCompleted:
			rec.timers.stop(timerEstablish)
		case webrtc.ICEConnectionStateDisconnected:
			// Give ICE a grace window to recover on its own before a
			// restart is forced.
			rec.timers.set(timerGrace, m.cfg.DisconnectGrace, func() {
				if !m.isCurrent(rec) {
					return
				}
				if rec.pc.ICEConnectionState() == webrtc.ICEConnectionStateDisconnected {
					m.log.Info("peer %s still disconnected after grace, restarting ICE", id)
					m.attemptRestart(rec)
				}
			})
		}
	})

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		if !m.isCurrent(rec) {
			return
		}
		m.log.Debug("peer %s connection: %s", id, state)
		switch state {
		case webrtc.PeerConnectionStateConnected:
			rec.timers.stop(timerEstablish)
			rec.timers.stop(timerGrace)
			rec.resetRestarts()
			rec.setState(StateConnected)
			m.startMonitor(rec)
		case webrtc.PeerConnectionStateDisconnected:
			rec.setState(StateDisconnected)
		case webrtc.PeerConnectionStateFailed:
			m.attemptRestart(rec)
		case webrtc.PeerConnectionStateClosed:
			rec.timers.stopAll()
		}
	})
}

// sendOffer claims the record's negotiation slot and runs one offer cycle.
// A cycle already in flight absorbs the request as a queued follow-up,
// keeping its restart flavor.
func (m *Manager) sendOffer(rec *peerRecord, restart bool) {
	if !rec.beginNegotiation(restart) {
		return
	}
	go m.runOffer(rec, restart)
}

func (m *Manager) runOffer(rec *peerRecord, restart bool) {
	sdp, err := rec.createOffer(restart)
	if err != nil {
		m.log.Error("create offer for %s: %v", rec.id, err)
		if followUp, followRestart := rec.finishNegotiation(); followUp {
			go m.runOffer(rec, followRestart)
		}
		return
	}
	if !m.isCurrent(rec) {
		return
	}
	m.transport.Send(signaling.Offer{Target: rec.id, SDP: sdp})
}

// HandleOffer processes an inbound offer: a fresh one creates a responder
// record, one for a live record is a renegotiation on the same transport.
func (m *Manager) HandleOffer(from, username, sdp string) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if m.session != nil {
		if _, ok := m.session.participants[from]; !ok {
			m.session.participants[from] = &Participant{
				ID:       from,
				Username: username,
				MicOn:    true,
			}
		}
	}
	rec := m.records[from]
	m.mu.Unlock()

	if rec == nil || !rec.live() {
		if err := m.CreateSession(from, username, false); err != nil {
			m.log.Error("create responder session for %s: %v", from, err)
			return
		}
		rec = m.record(from)
		if rec == nil {
			return
		}
	} else {
		m.log.Debug("renegotiating with %s", from)
	}

	if err := rec.applyOffer(sdp); err != nil {
		m.log.Error("apply offer from %s: %v", from, err)
		return
	}
	m.flushCandidates(rec)

	answer, err := rec.createAnswer()
	if err != nil {
		m.log.Error("create answer for %s: %v", from, err)
		return
	}
	if !m.isCurrent(rec) {
		return
	}
	if rec.State() == StateNew {
		rec.setState(StateNegotiating)
	}
	m.transport.Send(signaling.Answer{Target: from, SDP: answer})
	m.notifyRoster()
}

// HandleAnswer applies an inbound answer and releases the negotiation
// slot; a follow-up cycle queued by a track change or a restart request
// runs immediately, with the restart flavor preserved.
func (m *Manager) HandleAnswer(from, sdp string) {
	rec := m.record(from)
	if rec == nil {
		m.log.Debug("answer from %s ignored: no record", from)
		return
	}
	if err := rec.applyAnswer(sdp); err != nil {
		m.log.Error("apply answer from %s: %v", from, err)
		return
	}
	m.flushCandidates(rec)
	if followUp, restart := rec.finishNegotiation(); followUp {
		go m.runOffer(rec, restart)
	}
}

// HandleCandidate applies a candidate directly when the record's remote
// description is set, otherwise defers it to the buffer.
func (m *Manager) HandleCandidate(from string, c webrtc.ICECandidateInit) {
	m.mu.Lock()
	rec := m.records[from]
	if rec != nil && rec.remoteDescriptionSet() {
		m.mu.Unlock()
		if err := rec.addCandidate(c); err != nil {
			m.log.Warn("add candidate from %s: %v", from, err)
		}
		return
	}
	m.pending.enqueue(from, c)
	n := m.pending.len(from)
	m.mu.Unlock()
	m.log.Debug("buffered candidate for %s (%d pending)", from, n)
}

// flushCandidates applies the buffered candidates for a record, in arrival
// order, exactly once; afterwards the participant has no queue at all.
func (m *Manager) flushCandidates(rec *peerRecord) {
	if !rec.remoteDescriptionSet() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records[rec.id] != rec {
		return
	}
	m.pending.flush(rec.id, rec.addCandidate)
}

// attemptRestart consumes one restart attempt or, with the budget spent,
// moves the record to FAILED and schedules its removal.
func (m *Manager) attemptRestart(rec *peerRecord) {
	if !m.isCurrent(rec) {
		return
	}
	if rec.bumpRestart(m.cfg.RestartBudget) {
		rec.mu.Lock()
		attempt := rec.restartCount
		rec.mu.Unlock()
		m.log.Info("attempting ICE restart for %s (attempt %d/%d)", rec.id, attempt, m.cfg.RestartBudget)
		rec.setState(StateRestarting)
		m.sendOffer(rec, true)
		return
	}

	m.log.Error("peer %s connection failed: %v", rec.id, ErrRestartBudgetExhausted)
	rec.setState(StateFailed)

	// Short grace before cleanup so a racing user_left envelope can win
	// and make this a no-op.
	rec.timers.set(timerCleanup, m.cfg.FailedCleanupDelay, func() {
		if !m.isCurrent(rec) {
			return
		}
		state := rec.pc.ConnectionState()
		if rec.State() != StateFailed &&
			state != webrtc.PeerConnectionStateFailed &&
			state != webrtc.PeerConnectionStateClosed {
			return
		}
		m.log.Info("cleaning up failed peer %s", rec.id)
		m.RemoveParticipant(rec.id)
	})
}

// RemoveParticipant tears down a participant's record, roster entry and
// candidate queue. Idempotent: the relay's departure envelope and the
// local failure path can both call it, and whichever runs second finds
// nothing left to do.
func (m *Manager) RemoveParticipant(participantID string) {
	m.mu.Lock()
	rec := m.records[participantID]
	delete(m.records, participantID)
	var hadEntry bool
	if m.session != nil {
		_, hadEntry = m.session.participants[participantID]
		delete(m.session.participants, participantID)
	}
	m.pending.drop(participantID)
	m.mu.Unlock()

	if rec != nil {
		rec.release()
	}
	if rec != nil || hadEntry {
		m.log.Info("participant %s removed", participantID)
		m.notifyRoster()
	}
}

// readAudio drains one remote audio track through the activity detector
// until the track ends or the record is released.
func (m *Manager) readAudio(rec *peerRecord, track *webrtc.TrackRemote, det *audio.Detector) {
	buf := utils.GetBuffer(1500)
	defer utils.PutBuffer(buf)
	for {
		select {
		case <-rec.done:
			return
		default:
		}
		n, _, err := track.Read(buf)
		if err != nil {
			return
		}
		if err := det.HandlePacket(buf[:n]); err != nil {
			m.log.Debug("audio packet from %s: %v", rec.id, err)
		}
	}
}

// audioLevelExtensionID finds the negotiated RFC 6464 extension id
func audioLevelExtensionID(receiver *webrtc.RTPReceiver) uint8 {
	for _, ext := range receiver.GetParameters().HeaderExtensions {
		if ext.URI == audio.LevelExtensionURI {
			return uint8(ext.ID)
		}
	}
	return 1
}

// isCurrent reports whether rec is still the live record for its id. Every
// delayed continuation checks this before mutating shared state: existence
// of some record is not enough, it must be this exact one.
func (m *Manager) isCurrent(rec *peerRecord) bool {
	m.mu.Lock()
	current := m.records[rec.id] == rec
	m.mu.Unlock()
	if !current {
		m.log.Debug("dropping stale callback for %s (record %s)", rec.id, rec.gen)
	}
	return current
}

func (m *Manager) record(id string) *peerRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id]
}

func (m *Manager) setMediaFlag(id string, apply func(*Participant)) {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return
	}
	if id == m.session.MyID || id == "local" {
		apply(&m.session.local)
	} else if p, ok := m.session.participants[id]; ok {
		apply(p)
	} else {
		m.mu.Unlock()
		m.log.Debug("status update for unknown participant %s", id)
		return
	}
	m.mu.Unlock()
	m.notifyRoster()
}

func (m *Manager) setSpeaking(id string, speaking bool) {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return
	}
	if p, ok := m.session.participants[id]; ok {
		p.Speaking = speaking
	}
	fn := m.onSpeaking
	m.mu.Unlock()
	if fn != nil {
		fn(id, speaking)
	}
}

func (m *Manager) notifyRoster() {
	m.mu.Lock()
	fn := m.onRoster
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Roster returns a stable snapshot of the remote participants
func (m *Manager) Roster() []Participant {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	roster := make([]Participant, 0, len(m.session.participants))
	for _, p := range m.session.participants {
		roster = append(roster, *p)
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].ID < roster[j].ID })
	return roster
}

// Self returns the local participant's state
func (m *Manager) Self() Participant {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return Participant{}
	}
	return m.session.local
}

// SessionInfo returns the relay-assigned id, the room start time and the
// camera limit
func (m *Manager) SessionInfo() (myID string, start time.Time, maxCameras int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return "", time.Time{}, 0
	}
	return m.session.MyID, m.session.SessionStart, m.session.MaxCameras
}

// Quality returns the latest health sample for a participant
func (m *Manager) Quality(participantID string) (HealthSample, bool) {
	rec := m.record(participantID)
	if rec == nil {
		return HealthSample{}, false
	}
	return rec.Health(), true
}

// RecordState returns the lifecycle state of a participant's record
func (m *Manager) RecordState(participantID string) (ConnState, bool) {
	rec := m.record(participantID)
	if rec == nil {
		return StateClosed, false
	}
	return rec.State(), true
}

// Leave shuts the session down intentionally: the out-of-band beacon goes
// first (it survives a dying websocket), then the in-band leave, then
// teardown. No recovery is attempted afterwards.
func (m *Manager) Leave(beacon *signaling.HTTPClient) {
	myID, _, _ := m.SessionInfo()
	if beacon != nil && myID != "" {
		if err := beacon.SendLeaveBeacon(myID); err != nil {
			m.log.Warn("leave beacon: %v", err)
		}
	}
	m.transport.Send(signaling.Leave{})
	m.Close()
}

// Close releases every record and the signaling channel
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	recs := make([]*peerRecord, 0, len(m.records))
	for id, rec := range m.records {
		recs = append(recs, rec)
		delete(m.records, id)
	}
	m.pending.clear()
	m.mu.Unlock()

	for _, rec := range recs {
		rec.release()
	}
	return m.transport.Close()
}

func toICEInit(p signaling.CandidatePayload) webrtc.ICECandidateInit {
	return webrtc.ICECandidateInit{
		Candidate:        p.Candidate,
		SDPMid:           p.SDPMid,
		SDPMLineIndex:    p.SDPMLineIndex,
		UsernameFragment: p.UsernameFragment,
	}
}

func fromICEInit(c webrtc.ICECandidateInit) signaling.CandidatePayload {
	return signaling.CandidatePayload{
		Candidate:        c.Candidate,
		SDPMid:           c.SDPMid,
		SDPMLineIndex:    c.SDPMLineIndex,
		UsernameFragment: c.UsernameFragment,
	}
}
