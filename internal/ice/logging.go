package ice

import "github.com/pion/logging"

// iceLog is this package's logger. internal/ice predates the pluggable
// LoggerFactory threaded through the rest of this module's public API, so
// it falls back to the default factory rather than taking one as a
// constructor argument; NewAgent is a low-level, package-private entry
// point not exposed across the public API boundary.
var iceLog = logging.NewDefaultLoggerFactory().NewLogger("ice")
