package strategy

import "errors"

// ErrNotImplemented is returned by the legacy H.264 strategy: the
// session-level (non-GFX) H.264 capture path was never completed
// upstream, so a client that negotiates it gets a clean error on every
// Job rather than a silent no-op.
var ErrNotImplemented = errors.New("strategy: h264 capture path not implemented")

var errRectTooSmall = errors.New("strategy: rectangle has non-positive width or height")
