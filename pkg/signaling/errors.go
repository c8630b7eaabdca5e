package signaling

import "errors"

// ErrTransportClosed indicates the transport was closed intentionally
var ErrTransportClosed = errors.New("transport is closed")
