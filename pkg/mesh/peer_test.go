package mesh

import (
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/pion/webrtc/v4"
)

func newTestRecord(t *testing.T) *peerRecord {
	t.Helper()
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		t.Fatalf("NewPeerConnection: %v", err)
	}
	rec := &peerRecord{
		id:     "peer-1",
		gen:    "gen-1",
		pc:     pc,
		timers: newTimerSet(clock.NewMock()),
		done:   make(chan struct{}),
		state:  StateNew,
	}
	t.Cleanup(rec.release)
	return rec
}

func TestPeerRecordNegotiationSlot(t *testing.T) {
	rec := newTestRecord(t)

	if !rec.beginNegotiation(false) {
		t.Fatal("First claim should succeed")
	}
	// A second request while a cycle is in flight collapses into one
	// pending follow-up, however many times it is made.
	if rec.beginNegotiation(false) {
		t.Fatal("Second claim should queue, not run")
	}
	if rec.beginNegotiation(false) {
		t.Fatal("Third claim should also queue")
	}

	followUp, restart := rec.finishNegotiation()
	if !followUp {
		t.Fatal("Finish should report the queued follow-up and re-claim")
	}
	if restart {
		t.Fatal("Plain follow-up must not carry a restart")
	}
	if followUp, _ = rec.finishNegotiation(); followUp {
		t.Fatal("Second finish should find no follow-up")
	}

	if !rec.beginNegotiation(false) {
		t.Fatal("Slot should be free again")
	}
}

func TestPeerRecordNegotiationKeepsRestartFlavor(t *testing.T) {
	rec := newTestRecord(t)

	if !rec.beginNegotiation(false) {
		t.Fatal("First claim should succeed")
	}
	// A restart queued behind a plain cycle keeps its flavor, and a
	// further plain request must not wash it out.
	if rec.beginNegotiation(true) {
		t.Fatal("Restart during a cycle should queue")
	}
	if rec.beginNegotiation(false) {
		t.Fatal("Plain request should also queue")
	}

	followUp, restart := rec.finishNegotiation()
	if !followUp {
		t.Fatal("Finish should report the queued follow-up")
	}
	if !restart {
		t.Fatal("Queued restart flavor was lost")
	}

	// The flavor is consumed with the follow-up; the next cycle is plain.
	if followUp, restart = rec.finishNegotiation(); followUp || restart {
		t.Fatal("Restart flavor must not leak into later cycles")
	}
}

func TestPeerRecordNegotiationAfterRelease(t *testing.T) {
	rec := newTestRecord(t)
	rec.release()
	if rec.beginNegotiation(false) {
		t.Error("Closed record must not accept negotiation")
	}
}

func TestPeerRecordRestartBudget(t *testing.T) {
	rec := newTestRecord(t)

	for i := 0; i < 3; i++ {
		if !rec.bumpRestart(3) {
			t.Fatalf("Attempt %d should be within budget", i+1)
		}
	}
	if rec.bumpRestart(3) {
		t.Fatal("Fourth attempt should exceed the budget")
	}

	// A successful connection refunds the budget in full.
	rec.resetRestarts()
	if !rec.bumpRestart(3) {
		t.Error("Budget should be restored after reset")
	}
}

func TestPeerRecordReleaseIdempotent(t *testing.T) {
	rec := newTestRecord(t)

	rec.release()
	if rec.State() != StateClosed {
		t.Errorf("Expected closed, got %s", rec.State())
	}
	if rec.live() {
		t.Error("Released record must not be live")
	}
	select {
	case <-rec.done:
	default:
		t.Error("done channel must be closed on release")
	}

	// Double release must not panic or double-close the channel.
	rec.release()
}

func TestPeerRecordOfferAnswerLoopback(t *testing.T) {
	a := newTestRecord(t)
	b := newTestRecord(t)

	if _, err := a.pc.AddTransceiverFromKind(webrtc.RTPCodecTypeAudio, webrtc.RTPTransceiverInit{
		Direction: webrtc.RTPTransceiverDirectionRecvonly,
	}); err != nil {
		t.Fatal(err)
	}

	offer, err := a.createOffer(false)
	if err != nil {
		t.Fatalf("createOffer: %v", err)
	}
	if a.remoteDescriptionSet() {
		t.Error("Offerer has no remote description yet")
	}

	if err := b.applyOffer(offer); err != nil {
		t.Fatalf("applyOffer: %v", err)
	}
	if !b.remoteDescriptionSet() {
		t.Error("Responder should have a remote description")
	}

	answer, err := b.createAnswer()
	if err != nil {
		t.Fatalf("createAnswer: %v", err)
	}
	if err := a.applyAnswer(answer); err != nil {
		t.Fatalf("applyAnswer: %v", err)
	}
	if !a.remoteDescriptionSet() {
		t.Error("Offerer should have a remote description after the answer")
	}
}
