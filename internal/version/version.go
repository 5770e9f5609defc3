// Package version holds build information set with -ldflags.
package version

// Version is the application version, e.g.
//
//	go build -ldflags "-X github.com/ndewijer/portfolio-ledger/internal/version.Version=1.2.0"
var Version = "dev"
