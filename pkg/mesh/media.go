package mesh

import (
	"github.com/pion/webrtc/v4"

	"github.com/hardchats/mesh_core/pkg/signaling"
)

// SetMicEnabled flips the local mute flag and broadcasts it. The audio
// track keeps flowing either way; muting is done at the capture source.
func (m *Manager) SetMicEnabled(enabled bool) {
	m.mu.Lock()
	if m.session == nil || m.closed {
		m.mu.Unlock()
		return
	}
	m.session.local.MicOn = enabled
	myID := m.session.MyID
	m.mu.Unlock()

	m.transport.Send(signaling.MicStatus{ID: myID, Enabled: enabled})
	m.notifyRoster()
}

// EnableCamera attaches the camera track to every live record and
// renegotiates each one
func (m *Manager) EnableCamera(track webrtc.TrackLocal) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	m.localCamera = track
	if m.session != nil {
		m.session.local.CamOn = true
	}
	recs := m.liveRecordsLocked()
	myID := ""
	if m.session != nil {
		myID = m.session.MyID
	}
	m.mu.Unlock()

	for _, rec := range recs {
		if _, err := rec.pc.AddTrack(track); err != nil {
			m.log.Warn("add camera track for %s: %v", rec.id, err)
			continue
		}
		m.sendOffer(rec, false)
	}
	m.transport.Send(signaling.CameraStatus{ID: myID, Enabled: true})
	m.notifyRoster()
	return nil
}

// DisableCamera removes the camera's senders from every record. The screen
// sender is tracked separately and survives untouched.
func (m *Manager) DisableCamera() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.localCamera = nil
	if m.session != nil {
		m.session.local.CamOn = false
	}
	recs := m.liveRecordsLocked()
	myID := ""
	if m.session != nil {
		myID = m.session.MyID
	}
	m.mu.Unlock()

	for _, rec := range recs {
		removed := false
		rec.mu.Lock()
		screenSender := rec.screenSender
		rec.mu.Unlock()
		for _, sender := range rec.pc.GetSenders() {
			if sender == screenSender {
				continue
			}
			t := sender.Track()
			if t == nil || t.Kind() != webrtc.RTPCodecTypeVideo {
				continue
			}
			if err := rec.pc.RemoveTrack(sender); err != nil {
				m.log.Warn("remove camera track for %s: %v", rec.id, err)
				continue
			}
			removed = true
		}
		if removed {
			m.sendOffer(rec, false)
		}
	}
	m.transport.Send(signaling.CameraStatus{ID: myID, Enabled: false})
	m.notifyRoster()
}

// EnableScreen attaches the screen track to every live record, remembering
// each sender so DisableScreen can remove exactly that track later
func (m *Manager) EnableScreen(track webrtc.TrackLocal) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	m.localScreen = track
	if m.session != nil {
		m.session.local.ScreenOn = true
	}
	recs := m.liveRecordsLocked()
	myID := ""
	if m.session != nil {
		myID = m.session.MyID
	}
	m.mu.Unlock()

	for _, rec := range recs {
		sender, err := rec.pc.AddTrack(track)
		if err != nil {
			m.log.Warn("add screen track for %s: %v", rec.id, err)
			continue
		}
		rec.mu.Lock()
		rec.screenSender = sender
		rec.mu.Unlock()
		m.sendOffer(rec, false)
	}
	m.transport.Send(signaling.ScreenStatus{ID: myID, Enabled: true})
	m.notifyRoster()
	return nil
}

// DisableScreen removes the remembered screen sender from every record and
// renegotiates. Camera senders are untouched, and the audio senders are
// verified afterwards because sender removal can disturb them.
func (m *Manager) DisableScreen() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.localScreen = nil
	if m.session != nil {
		m.session.local.ScreenOn = false
	}
	recs := m.liveRecordsLocked()
	myID := ""
	if m.session != nil {
		myID = m.session.MyID
	}
	m.mu.Unlock()

	for _, rec := range recs {
		rec.mu.Lock()
		sender := rec.screenSender
		rec.screenSender = nil
		rec.mu.Unlock()
		if sender == nil {
			continue
		}
		if err := rec.pc.RemoveTrack(sender); err != nil {
			m.log.Warn("remove screen track for %s: %v", rec.id, err)
		}
		m.ensureAudioSenders(rec)
		m.sendOffer(rec, false)
	}
	m.transport.Send(signaling.ScreenStatus{ID: myID, Enabled: false})
	m.notifyRoster()
}

// ensureAudioSenders repairs a record's outbound audio after sender
// churn: a live sender with a dropped track gets it replaced, a record
// with no audio sender at all gets the track re-added.
func (m *Manager) ensureAudioSenders(rec *peerRecord) {
	m.mu.Lock()
	audioTrack := m.localAudio
	m.mu.Unlock()
	if audioTrack == nil {
		return
	}

	var vacant *webrtc.RTPSender
	for _, sender := range rec.pc.GetSenders() {
		t := sender.Track()
		if t == nil {
			vacant = sender
			continue
		}
		if t.Kind() == webrtc.RTPCodecTypeAudio {
			return
		}
	}
	if vacant != nil {
		if err := vacant.ReplaceTrack(audioTrack); err == nil {
			return
		}
	}
	if _, err := rec.pc.AddTrack(audioTrack); err != nil {
		m.log.Warn("reattach audio track for %s: %v", rec.id, err)
	}
}

// liveRecordsLocked snapshots the non-terminal records. Caller holds m.mu.
func (m *Manager) liveRecordsLocked() []*peerRecord {
	recs := make([]*peerRecord, 0, len(m.records))
	for _, rec := range m.records {
		if rec.live() {
			recs = append(recs, rec)
		}
	}
	return recs
}
