package version

// Version is the build version, injected with
// -ldflags "-X github.com/locallibrary/locallibrary/pkg/version.Version=1.2.3".
var Version = "dev"
