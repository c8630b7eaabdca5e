package signaling

import (
	"encoding/json"
	"fmt"
)

// Kind represents the type of signaling envelope
type Kind string

const (
	// KindJoin is the initial join request (credentials + captcha answer)
	KindJoin Kind = "join"
	// KindReconnect resumes an existing session with a token
	KindReconnect Kind = "reconnect"
	// KindUsers is the roster snapshot sent after a successful join
	KindUsers Kind = "users"
	// KindUserJoined announces a new participant
	KindUserJoined Kind = "user_joined"
	// KindUserLeft announces a departed participant
	KindUserLeft Kind = "user_left"
	// KindOffer is an SDP offer
	KindOffer Kind = "offer"
	// KindAnswer is an SDP answer
	KindAnswer Kind = "answer"
	// KindCandidate is an ICE candidate
	KindCandidate Kind = "candidate"
	// KindMicStatus broadcasts a microphone toggle
	KindMicStatus Kind = "mic_status"
	// KindCameraStatus broadcasts a camera toggle
	KindCameraStatus Kind = "camera_status"
	// KindScreenStatus broadcasts a screen-share toggle
	KindScreenStatus Kind = "screen_status"
	// KindLeave is the best-effort leave notice over the channel
	KindLeave Kind = "leave"
	// KindError indicates the current join attempt was rejected
	KindError Kind = "error"
)

// Envelope is the closed set of signaling messages. Every inbound frame is
// decoded into exactly one variant at the transport boundary; nothing past
// the transport inspects raw JSON.
type Envelope interface {
	Kind() Kind
}

// Join is the initial join request
type Join struct {
	Username      string `json:"username"`
	CaptchaID     string `json:"captcha_id"`
	CaptchaAnswer string `json:"captcha_answer"`
}

func (Join) Kind() Kind { return KindJoin }

// Reconnect resumes a prior session; no captcha is required
type Reconnect struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func (Reconnect) Kind() Kind { return KindReconnect }

// UserInfo describes one participant in a roster payload
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	CamOn    bool   `json:"cam_on"`
	MicOn    bool   `json:"mic_on"`
	ScreenOn bool   `json:"screen_on"`
}

// UnmarshalJSON defaults MicOn to true when the field is absent; the relay
// only includes mic_on once a participant has toggled it.
func (u *UserInfo) UnmarshalJSON(data []byte) error {
	type alias UserInfo
	aux := struct {
		MicOn *bool `json:"mic_on"`
		*alias
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.MicOn = aux.MicOn == nil || *aux.MicOn
	return nil
}

// Users is the roster snapshot delivered after a successful join or
// resumption. ReconnectToken is present only on a fresh join.
type Users struct {
	You            string     `json:"you"`
	SessionStart   float64    `json:"session_start"`
	MaxCameras     int        `json:"max_cameras"`
	ReconnectToken string     `json:"reconnect_token,omitempty"`
	Users          []UserInfo `json:"users"`
}

func (Users) Kind() Kind { return KindUsers }

// UserJoined announces a participant joining the room
type UserJoined struct {
	UserInfo
}

func (UserJoined) Kind() Kind { return KindUserJoined }

// UserLeft announces a participant leaving the room
type UserLeft struct {
	ID string `json:"id"`
}

func (UserLeft) Kind() Kind { return KindUserLeft }

// Offer carries an SDP offer. Target is set by the sender; From and
// Username are stamped by the relay on delivery.
type Offer struct {
	Target   string `json:"target,omitempty"`
	From     string `json:"from,omitempty"`
	Username string `json:"username,omitempty"`
	SDP      string `json:"sdp"`
}

func (Offer) Kind() Kind { return KindOffer }

// Answer carries an SDP answer
type Answer struct {
	Target string `json:"target,omitempty"`
	From   string `json:"from,omitempty"`
	SDP    string `json:"sdp"`
}

func (Answer) Kind() Kind { return KindAnswer }

// CandidatePayload mirrors the browser RTCIceCandidateInit shape
type CandidatePayload struct {
	Candidate        string  `json:"candidate"`
	SDPMid           *string `json:"sdpMid,omitempty"`
	SDPMLineIndex    *uint16 `json:"sdpMLineIndex,omitempty"`
	UsernameFragment *string `json:"usernameFragment,omitempty"`
}

// Candidate carries one ICE candidate
type Candidate struct {
	Target    string           `json:"target,omitempty"`
	From      string           `json:"from,omitempty"`
	Candidate CandidatePayload `json:"candidate"`
}

func (Candidate) Kind() Kind { return KindCandidate }

// MicStatus broadcasts a microphone toggle. ID is stamped by the relay.
type MicStatus struct {
	ID      string `json:"id,omitempty"`
	Enabled bool   `json:"enabled"`
}

func (MicStatus) Kind() Kind { return KindMicStatus }

// CameraStatus broadcasts a camera toggle
type CameraStatus struct {
	ID      string `json:"id,omitempty"`
	Enabled bool   `json:"enabled"`
}

func (CameraStatus) Kind() Kind { return KindCameraStatus }

// ScreenStatus broadcasts a screen-share toggle
type ScreenStatus struct {
	ID      string `json:"id,omitempty"`
	Enabled bool   `json:"enabled"`
}

func (ScreenStatus) Kind() Kind { return KindScreenStatus }

// Leave is the in-band leave notice
type Leave struct{}

func (Leave) Kind() Kind { return KindLeave }

// ErrorMessage is a join rejection; fatal for the current attempt
type ErrorMessage struct {
	Message string `json:"message"`
}

func (ErrorMessage) Kind() Kind { return KindError }

// Decode parses one inbound frame into its envelope variant.
func Decode(data []byte) (Envelope, error) {
	var probe struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	var (
		env Envelope
		err error
	)
	switch probe.Type {
	case KindJoin:
		v := Join{}
		err = json.Unmarshal(data, &v)
		env = v
	case KindReconnect:
		v := Reconnect{}
		err = json.Unmarshal(data, &v)
		env = v
	case KindUsers:
		v := Users{}
		err = json.Unmarshal(data, &v)
		env = v
	case KindUserJoined:
		v := UserJoined{}
		err = json.Unmarshal(data, &v)
		env = v
	case KindUserLeft:
		v := UserLeft{}
		err = json.Unmarshal(data, &v)
		env = v
	case KindOffer:
		v := Offer{}
		err = json.Unmarshal(data, &v)
		env = v
	case KindAnswer:
		v := Answer{}
		err = json.Unmarshal(data, &v)
		env = v
	case KindCandidate:
		v := Candidate{}
		err = json.Unmarshal(data, &v)
		env = v
	case KindMicStatus:
		v := MicStatus{}
		err = json.Unmarshal(data, &v)
		env = v
	case KindCameraStatus:
		v := CameraStatus{}
		err = json.Unmarshal(data, &v)
		env = v
	case KindScreenStatus:
		v := ScreenStatus{}
		err = json.Unmarshal(data, &v)
		env = v
	case KindLeave:
		env = Leave{}
	case KindError:
		v := ErrorMessage{}
		err = json.Unmarshal(data, &v)
		env = v
	default:
		return nil, fmt.Errorf("unknown envelope type %q", probe.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s envelope: %w", probe.Type, err)
	}
	return env, nil
}

// Encode serializes an envelope with its type tag.
func Encode(env Envelope) ([]byte, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", env.Kind(), err)
	}
	fields := make(map[string]interface{})
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", env.Kind(), err)
	}
	fields["type"] = env.Kind()
	return json.Marshal(fields)
}
