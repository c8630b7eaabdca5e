package mesh

import (
	"github.com/pion/webrtc/v4"
)

// startMonitor launches the periodic health sampler for a connected
// record. At most one loop runs per record, however many times the
// connection bounces through connected.
func (m *Manager) startMonitor(rec *peerRecord) {
	rec.monitorOnce.Do(func() {
		go m.monitorLoop(rec)
	})
}

func (m *Manager) monitorLoop(rec *peerRecord) {
	ticker := m.clock.Ticker(m.cfg.HealthInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rec.done:
			return
		case <-ticker.C:
		}
		if rec.pc.ConnectionState() == webrtc.PeerConnectionStateClosed {
			return
		}
		sample, ok := extractHealthSample(rec.pc.GetStats())
		rec.setHealth(sample)
		if !ok {
			// No audio stats yet; the tier stays unknown and nothing is
			// reported upstream.
			continue
		}
		if !m.isCurrent(rec) {
			return
		}
		m.mu.Lock()
		fn := m.onQuality
		m.mu.Unlock()
		if fn != nil {
			fn(rec.id, sample)
		}
	}
}

// extractHealthSample derives loss, jitter and round-trip time from one
// stats snapshot. Loss and jitter come from the inbound audio stream, RTT
// from the succeeded candidate pair. Without inbound audio stats the
// sample is unknown and ok is false.
func extractHealthSample(report webrtc.StatsReport) (HealthSample, bool) {
	var (
		received float64
		lost     float64
		jitterMs float64
		rttMs    float64
		hasAudio bool
	)
	for _, stat := range report {
		switch s := stat.(type) {
		case webrtc.InboundRTPStreamStats:
			if s.Kind != "audio" {
				continue
			}
			received = float64(s.PacketsReceived)
			lost = float64(s.PacketsLost)
			jitterMs = s.Jitter * 1000
			hasAudio = true
		case webrtc.ICECandidatePairStats:
			if s.State != webrtc.StatsICECandidatePairStateSucceeded {
				continue
			}
			rttMs = s.CurrentRoundTripTime * 1000
		}
	}
	if !hasAudio {
		return HealthSample{Tier: TierUnknown}, false
	}

	lossPercent := 0.0
	if total := received + lost; total > 0 {
		lossPercent = lost / total * 100
	}
	sample := HealthSample{
		Tier:        Classify(lossPercent, jitterMs, rttMs),
		LossPercent: lossPercent,
		JitterMs:    jitterMs,
		RTTMs:       rttMs,
	}
	return sample, true
}
