package mesh

import (
	"time"
)

// Participant is one remote member of the room as seen by the UI layer
type Participant struct {
	ID       string
	Username string
	CamOn    bool
	MicOn    bool
	ScreenOn bool
	Speaking bool
}

// Session is the room-scoped state rebuilt from signaling on every join or
// resumption. Nothing here survives an intentional leave.
type Session struct {
	// MyID is the local participant id assigned by the relay
	MyID string

	// Username chosen at join
	Username string

	// SessionStart is the relay's room start time
	SessionStart time.Time

	// MaxCameras is the relay-enforced camera limit
	MaxCameras int

	// participants holds the remote roster, keyed by id. Owned by the
	// Manager and mutated only under its lock.
	participants map[string]*Participant

	// local mirrors the local participant's media flags; preserved across
	// a resumption gap while everything else is rebuilt.
	local Participant
}

func newSession(username string) *Session {
	return &Session{
		Username:     username,
		participants: make(map[string]*Participant),
		local: Participant{
			Username: username,
			MicOn:    true,
		},
	}
}

// reset clears everything except the local participant's media flags,
// ahead of a rebuild from a fresh roster snapshot.
func (s *Session) reset() {
	s.participants = make(map[string]*Participant)
}
