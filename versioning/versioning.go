package versioning

// populated at build time through ldflags
var (
	Commit    = "unknown"
	Branch    = "unknown"
	BuildTime = "unknown"
)
