package version

// Set at build time with -ldflags "-X github.com/keshon/server-soundboard/internal/version.Version=..."
var (
	AppName = "Server Soundboard"
	Version = "dev"
)
