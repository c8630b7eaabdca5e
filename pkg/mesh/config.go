package mesh

import (
	"fmt"
	"time"

	"github.com/pion/logging"
	"github.com/pion/webrtc/v4"

	"github.com/hardchats/mesh_core/pkg/audio"
	"github.com/hardchats/mesh_core/pkg/signaling"
)

// Config holds mesh session settings
type Config struct {
	// ICE servers for peer connections
	ICEServers []webrtc.ICEServer

	// ICETransportPolicy restricts candidate types (relay-only deployments)
	ICETransportPolicy webrtc.ICETransportPolicy

	// EstablishTimeout is how long a new record may stay unconnected
	// before it is discarded and rebuilt as initiator
	EstablishTimeout time.Duration

	// DisconnectGrace is how long an ICE disconnect may persist before a
	// restart is attempted
	DisconnectGrace time.Duration

	// FailedCleanupDelay is the grace between reaching FAILED and
	// releasing the record, to let a racing departure envelope win
	FailedCleanupDelay time.Duration

	// HealthInterval is the quality sampling period
	HealthInterval time.Duration

	// RestartBudget bounds consecutive ICE restarts per record
	RestartBudget int

	// SpeakingThreshold on the 0-255 magnitude scale
	SpeakingThreshold float64

	// Debug enables verbose logging, including WebRTC internals
	Debug bool
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		ICEServers: []webrtc.ICEServer{
			{URLs: []string{"stun:stun.l.google.com:19302"}},
		},
		EstablishTimeout:   15 * time.Second,
		DisconnectGrace:    5 * time.Second,
		FailedCleanupDelay: 3 * time.Second,
		HealthInterval:     3 * time.Second,
		RestartBudget:      3,
		SpeakingThreshold:  audio.DefaultThreshold,
	}
}

// ApplyTurn replaces the ICE configuration with the relay-supplied TURN
// description from /api/config.
func (c *Config) ApplyTurn(t signaling.TurnConfig) {
	servers := []webrtc.ICEServer{}
	if t.StunURL != "" {
		servers = append(servers, webrtc.ICEServer{URLs: []string{t.StunURL}})
	}
	if t.Host != "" {
		turnURL := fmt.Sprintf("turn:%s:%d", t.Host, t.Port)
		servers = append(servers, webrtc.ICEServer{
			URLs:       []string{turnURL},
			Username:   t.Username,
			Credential: t.Credential,
		})
	}
	if len(servers) > 0 {
		c.ICEServers = servers
	}
	if t.ICETransportPolicy == "relay" {
		c.ICETransportPolicy = webrtc.ICETransportPolicyRelay
	}
}

func (c Config) rtcConfiguration() webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers:         c.ICEServers,
		ICETransportPolicy: c.ICETransportPolicy,
	}
}

// newWebRTCAPI builds the shared API object: default codecs, the RFC 6464
// audio-level extension for speaking detection, and a logger factory whose
// level follows Config.Debug.
func newWebRTCAPI(cfg Config) (*webrtc.API, error) {
	m := &webrtc.MediaEngine{}
	if err := m.RegisterDefaultCodecs(); err != nil {
		return nil, err
	}
	if err := m.RegisterHeaderExtension(
		webrtc.RTPHeaderExtensionCapability{URI: audio.LevelExtensionURI},
		webrtc.RTPCodecTypeAudio,
	); err != nil {
		return nil, err
	}

	factory := logging.NewDefaultLoggerFactory()
	if cfg.Debug {
		factory.DefaultLogLevel = logging.LogLevelDebug
	} else {
		factory.DefaultLogLevel = logging.LogLevelWarn
	}
	se := webrtc.SettingEngine{LoggerFactory: factory}

	return webrtc.NewAPI(
		webrtc.WithMediaEngine(m),
		webrtc.WithSettingEngine(se),
	), nil
}
