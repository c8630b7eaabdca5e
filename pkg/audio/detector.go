package audio

import (
	"math"

	"github.com/pion/rtp"
)

// LevelExtensionURI is the RFC 6464 client-to-mixer audio level extension.
// It must be offered in the SDP for remote speaking detection to work.
const LevelExtensionURI = "urn:ietf:params:rtp-hdrext:ssrc-audio-level"

// Detector derives a speaking flag for one remote audio track. Remote media
// is never decoded here, so the level comes from the RFC 6464 audio-level
// header extension: the sender's measured -dBov, mapped back onto the same
// linear magnitude scale the local meter uses.
type Detector struct {
	meter       *Meter
	extensionID uint8
}

// NewDetector creates a detector for a track whose audio-level extension
// was negotiated with the given ID
func NewDetector(extensionID uint8, threshold float64) *Detector {
	return &Detector{
		meter:       NewMeter(threshold),
		extensionID: extensionID,
	}
}

// Meter exposes the underlying meter for callbacks
func (d *Detector) Meter() *Meter {
	return d.meter
}

// Speaking returns the current speaking flag
func (d *Detector) Speaking() bool {
	return d.meter.Speaking()
}

// HandlePacket inspects one raw RTP packet. Packets without the level
// extension leave the state unchanged.
func (d *Detector) HandlePacket(data []byte) error {
	pkt := &rtp.Packet{}
	if err := pkt.Unmarshal(data); err != nil {
		return err
	}
	ext := pkt.GetExtension(d.extensionID)
	if ext == nil {
		return nil
	}
	var level rtp.AudioLevelExtension
	if err := level.Unmarshal(ext); err != nil {
		return err
	}
	d.meter.update(dbovToMagnitude(level.Level))
	return nil
}

// dbovToMagnitude converts an RFC 6464 level (0-127 dB of attenuation below
// overload, 0 loudest) to the 0-255 linear scale.
func dbovToMagnitude(level uint8) float64 {
	if level >= 127 {
		return 0
	}
	return 255 * math.Pow(10, -float64(level)/20)
}
