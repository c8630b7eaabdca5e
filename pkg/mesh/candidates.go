package mesh

import (
	"github.com/pion/webrtc/v4"

	"github.com/hardchats/mesh_core/pkg/utils"
)

// candidateBuffer queues ICE candidates that arrive before the matching
// record's remote description is set. The relay preserves per-participant
// order, but candidates can outrun the offer/answer that precedes them.
type candidateBuffer struct {
	pending map[string][]webrtc.ICECandidateInit
}

func newCandidateBuffer() *candidateBuffer {
	return &candidateBuffer{
		pending: make(map[string][]webrtc.ICECandidateInit),
	}
}

// enqueue appends a candidate for a participant whose record is not ready
func (b *candidateBuffer) enqueue(participantID string, c webrtc.ICECandidateInit) {
	b.pending[participantID] = append(b.pending[participantID], c)
}

// flush applies queued candidates in arrival order and deletes the queue
// entry. Deleting (not draining) matters: a later record for a recycled id
// must start with a fresh queue, never inherit this one. A candidate that
// fails to apply is logged and skipped; it never aborts the rest.
func (b *candidateBuffer) flush(participantID string, apply func(webrtc.ICECandidateInit) error) {
	queued, ok := b.pending[participantID]
	if !ok {
		return
	}
	delete(b.pending, participantID)

	if len(queued) > 0 {
		utils.Debug("flushing %d buffered candidates for %s", len(queued), participantID)
	}
	for _, c := range queued {
		if err := apply(c); err != nil {
			utils.Warn("failed to apply buffered candidate for %s: %v", participantID, err)
		}
	}
}

// drop discards any queue for the participant
func (b *candidateBuffer) drop(participantID string) {
	delete(b.pending, participantID)
}

// len reports the queue length for a participant
func (b *candidateBuffer) len(participantID string) int {
	return len(b.pending[participantID])
}

// clear discards every queue
func (b *candidateBuffer) clear() {
	b.pending = make(map[string][]webrtc.ICECandidateInit)
}
