package mesh

// ConnState is the lifecycle state of one peer connection record
type ConnState int

const (
	StateNew ConnState = iota
	StateNegotiating
	StateConnected
	StateDisconnected
	StateRestarting
	StateFailed
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateNegotiating:
		return "negotiating"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	case StateRestarting:
		return "restarting"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// terminal reports whether the record can no longer carry media
func (s ConnState) terminal() bool {
	return s == StateFailed || s == StateClosed
}

// Tier is the ordinal connection quality classification
type Tier int

const (
	TierUnknown Tier = iota
	TierPoor
	TierFair
	TierGood
	TierExcellent
)

func (t Tier) String() string {
	switch t {
	case TierExcellent:
		return "excellent"
	case TierGood:
		return "good"
	case TierFair:
		return "fair"
	case TierPoor:
		return "poor"
	default:
		return "unknown"
	}
}

// Bars maps a tier onto the 0-4 indicator scale
func (t Tier) Bars() int {
	switch t {
	case TierExcellent:
		return 4
	case TierGood:
		return 3
	case TierFair:
		return 2
	case TierPoor:
		return 1
	default:
		return 0
	}
}

// HealthSample is one rolling quality measurement for a peer
type HealthSample struct {
	Tier        Tier    `json:"tier"`
	LossPercent float64 `json:"lossPercent"`
	JitterMs    float64 `json:"jitterMs"`
	RTTMs       float64 `json:"rttMs"`
}

// Classify maps loss/jitter/RTT onto a quality tier. Rows are evaluated
// top-down and the first match wins, so a single bad metric drags the
// whole sample down.
func Classify(lossPercent, jitterMs, rttMs float64) Tier {
	switch {
	case lossPercent < 1 && jitterMs < 30 && rttMs < 100:
		return TierExcellent
	case lossPercent < 3 && jitterMs < 50 && rttMs < 200:
		return TierGood
	case lossPercent < 8 && jitterMs < 100 && rttMs < 400:
		return TierFair
	default:
		return TierPoor
	}
}
