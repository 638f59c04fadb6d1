package console

// LogLevel classifies log output severity.
type LogLevel int

// Log levels.
const (
	LogLevelNone LogLevel = iota
	LogLevelCrit
	LogLevelWarn
	LogLevelInfo
	LogLevelDebg
)

// Tag returns the fixed five-character level tag, empty for unknown
// levels.
func (l LogLevel) Tag() string {
	switch l {
	case LogLevelNone:
		return "NONE "
	case LogLevelCrit:
		return "CRIT "
	case LogLevelWarn:
		return "WARN "
	case LogLevelInfo:
		return "INFO "
	case LogLevelDebg:
		return "DEBG "
	}
	return ""
}

// LogRegion identifies the subsystem a log line originates from.
type LogRegion int

// Log regions.
const (
	LogRegionCore LogRegion = iota
	LogRegionLink
	LogRegionShell
	LogRegionPlat
	LogRegionMem
)

// Tag returns the fixed five-character region tag, empty for unknown
// regions.
func (r LogRegion) Tag() string {
	switch r {
	case LogRegionCore:
		return "CORE "
	case LogRegionLink:
		return "LINK "
	case LogRegionShell:
		return "SHEL "
	case LogRegionPlat:
		return "PLAT "
	case LogRegionMem:
		return "MEM  "
	}
	return ""
}

// Log writes a severity/region tagged message through the output ring.
// It is a pure formatting front end over Output with no control flow
// of its own; the format is responsible for any trailing newline.
// Unknown levels or regions emit nothing.
func (t *Transport) Log(level LogLevel, region LogRegion, format string, args ...interface{}) {
	lt, rt := level.Tag(), region.Tag()
	if lt == "" || rt == "" {
		return
	}
	t.Output([]byte(lt))
	t.Output([]byte(rt))
	t.OutputFormat(format, args...)
}
