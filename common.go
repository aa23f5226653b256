package msgr

/*
Package-wide constants, enums and helper utilities used by the messenger:
  - default separators, widths and exit statuses
  - enums for color schemes and notification urgencies
  - normalization helpers
  - error message texts (also used by tests)
*/

const (
	// Default values used when the caller leaves an option at its zero value.
	DEFAULT_SEP          = " "    // separator between positional message arguments
	DEFAULT_CULPRIT_SEP  = ", "   // separator between culprit components
	DEFAULT_INDENT       = "    " // leader used for multi-line and continuation bodies
	DEFAULT_WRAP_WIDTH   = 70     // column width used when wrapping is requested
	DEFAULT_LINE_WIDTH   = 80     // header+culprit+body length that forces multi-line layout
	DEFAULT_ERROR_STATUS = 1      // exit status for unexpected errors
	DEFAULT_NOTIFIER     = "notify-send"
	DEFAULT_LOG_SUFFIX   = ".log"  // default logfile is .<prog><suffix>
	DEFAULT_PREV_SUFFIX  = ".prev" // a previous logfile is renamed with this suffix
)

const (
	// Recommended exit statuses (callers pick them by convention).
	STATUS_OK    = 0
	STATUS_ERROR = 1 // unexpected error
	STATUS_USAGE = 2 // invalid invocation
	STATUS_PANIC = 3 // internal invariant violation

	_STATUS_LIMIT_for_checks_only = 128 // exclusive upper bound for explicit statuses
)

const (
	// Error messages used across messenger operations (used for testing).
	_ERROR_MESSAGE_NO_TEMPLATE_MATCH = "no template matches the supplied arguments"
	_ERROR_MESSAGE_BAD_TEMPLATE      = "template references a missing argument"
	_ERROR_MESSAGE_NO_PREVIOUS       = "continuation emitted with no previous informant"
	_ERROR_MESSAGE_BAD_COLOR         = "unknown color name"
	_ERROR_MESSAGE_BAD_STATUS        = "exit status out of range [0,128)"
	_ERROR_MESSAGE_LOG_BOUNDS        = "log scaled progress requires positive bounds"
)

// basetype is the underlying byte-sized representation used for enums.
type basetype byte

type Scheme basetype  // color scheme (alias for byte)
type Urgency basetype // notification urgency (alias for byte)

const (
	// Color schemes. SCHEME_NONE disables colorization entirely.
	SCHEME_NONE Scheme = iota
	SCHEME_DARK
	SCHEME_LIGHT
	_SCHEME_MAX_for_checks_only
)

const (
	// Notification urgencies. URGENCY_DEFAULT lets the informant decide
	// (critical for error informants, normal otherwise).
	URGENCY_DEFAULT Urgency = iota
	URGENCY_LOW
	URGENCY_NORMAL
	URGENCY_CRITICAL
	_URGENCY_MAX_for_checks_only
)

// Generic byte normalization helper.
func norm_byte[T ~byte](val, overlimit, def T) T {
	if val < overlimit {
		return val
	} else {
		return def
	}
}

// Ensures a provided Scheme is within the valid range
func normScheme(scheme Scheme) Scheme {
	return norm_byte(scheme, _SCHEME_MAX_for_checks_only, SCHEME_NONE)
}

// Ensures a provided Urgency is within the valid range
func normUrgency(urgency Urgency) Urgency {
	return norm_byte(urgency, _URGENCY_MAX_for_checks_only, URGENCY_DEFAULT)
}

// Converts a panic value into a compact readable string (used when
// translating panics into errors or fallback messages)
func panicDesc(panic any) (errtext string) {
	switch v := panic.(type) {
	case string:
		errtext = ": `" + v + "`"
	case error:
		errtext = ": (error) `" + v.Error() + "`"
	default:
		errtext = " [no panic description]"
	}
	return errtext
}
