package version

// Version is set at build time via -ldflags "-X vmrotate/src/version.Version=...".
var Version = "0.1.0-dev"
