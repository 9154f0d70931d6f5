package kindprovisioner

// NewStreamLoggerForTest exposes newStreamLogger for unit testing.
var NewStreamLoggerForTest = newStreamLogger
