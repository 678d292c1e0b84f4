// Parses flags and configures logging for the xmaked daemon.
//
// The daemon accepts the following flags:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Enable verbose output.
//	-d, --debug     Enable debug output.
//	-c, --config    Configuration file path.
//	-l, --listen    Listen address override.
//
// Flags override build-time defaults set via linker flags. After parsing, the
// global log level is adjusted to reflect the final verbosity before the
// server starts.
package cli
