package mesh

import (
	"sync"

	"github.com/pion/webrtc/v4"
)

// peerRecord is the single live connection record for one remote
// participant. The Manager owns the records map; at most one non-closed
// record exists per participant id, and replacing a record always releases
// the old one first.
type peerRecord struct {
	id       string
	username string

	// gen identifies this record instance. Delayed continuations (timers,
	// pending negotiation steps) capture the record and compare it against
	// the table before mutating anything; gen makes the mismatch visible
	// in logs when a stale callback is dropped.
	gen string

	pc     *webrtc.PeerConnection
	timers *timerSet

	// done ends the health sampling and track reading loops; closed
	// exactly once on release.
	done        chan struct{}
	stopOnce    sync.Once
	monitorOnce sync.Once

	mu           sync.Mutex
	state        ConnState
	initiator    bool
	restartCount int

	// Single-slot negotiation queue: one offer/answer cycle in flight per
	// record, later track changes collapse into one queued follow-up. A
	// restart request queued behind a plain cycle keeps its flavor.
	negotiating    bool
	pendingOffer   bool
	pendingRestart bool

	// screenSender allows precise removal of the screen track without
	// touching the camera sender.
	screenSender *webrtc.RTPSender

	health HealthSample
	closed bool
}

func (r *peerRecord) State() ConnState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *peerRecord) setState(s ConnState) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// live reports whether the record can still carry or negotiate media
func (r *peerRecord) live() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.closed && !r.state.terminal()
}

// createOffer produces and installs a local offer. restart requests an
// ICE restart on the existing session.
func (r *peerRecord) createOffer(restart bool) (string, error) {
	var opts *webrtc.OfferOptions
	if restart {
		opts = &webrtc.OfferOptions{ICERestart: true}
	}
	offer, err := r.pc.CreateOffer(opts)
	if err != nil {
		return "", err
	}
	if err := r.pc.SetLocalDescription(offer); err != nil {
		return "", err
	}
	return offer.SDP, nil
}

// applyOffer installs a remote offer
func (r *peerRecord) applyOffer(sdp string) error {
	return r.pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  sdp,
	})
}

// createAnswer produces and installs a local answer
func (r *peerRecord) createAnswer() (string, error) {
	answer, err := r.pc.CreateAnswer(nil)
	if err != nil {
		return "", err
	}
	if err := r.pc.SetLocalDescription(answer); err != nil {
		return "", err
	}
	return answer.SDP, nil
}

// applyAnswer installs a remote answer
func (r *peerRecord) applyAnswer(sdp string) error {
	return r.pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeAnswer,
		SDP:  sdp,
	})
}

// addCandidate applies one ICE candidate
func (r *peerRecord) addCandidate(c webrtc.ICECandidateInit) error {
	return r.pc.AddICECandidate(c)
}

// remoteDescriptionSet reports whether candidates can be applied directly
func (r *peerRecord) remoteDescriptionSet() bool {
	return r.pc.RemoteDescription() != nil
}

// beginNegotiation claims the negotiation slot. When a cycle is already in
// flight the request collapses into a pending follow-up and false is
// returned; a restart request marks the follow-up so the restart is not
// lost behind the in-flight cycle.
func (r *peerRecord) beginNegotiation(restart bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	if r.negotiating {
		r.pendingOffer = true
		if restart {
			r.pendingRestart = true
		}
		return false
	}
	r.negotiating = true
	return true
}

// finishNegotiation releases the slot. It reports whether a follow-up
// cycle was queued while this one ran and whether that cycle must carry
// an ICE restart; when a follow-up is reported the slot is already
// re-claimed for it.
func (r *peerRecord) finishNegotiation() (followUp, restart bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.negotiating = false
	if r.pendingOffer && !r.closed {
		r.pendingOffer = false
		restart = r.pendingRestart
		r.pendingRestart = false
		r.negotiating = true
		return true, restart
	}
	return false, false
}

// bumpRestart consumes one restart attempt; false when the budget is spent
func (r *peerRecord) bumpRestart(budget int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.restartCount >= budget {
		return false
	}
	r.restartCount++
	return true
}

// resetRestarts clears the restart counter on a successful connection
func (r *peerRecord) resetRestarts() {
	r.mu.Lock()
	r.restartCount = 0
	r.mu.Unlock()
}

func (r *peerRecord) setHealth(s HealthSample) {
	r.mu.Lock()
	r.health = s
	r.mu.Unlock()
}

func (r *peerRecord) Health() HealthSample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.health
}

// release tears the record down: all timers cancelled, the health monitor
// stopped, the transport closed. Safe to call more than once.
func (r *peerRecord) release() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.state = StateClosed
	r.mu.Unlock()

	r.timers.stopAll()
	r.stopOnce.Do(func() { close(r.done) })
	r.pc.Close()
}
