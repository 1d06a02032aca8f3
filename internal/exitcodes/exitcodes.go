// Package exitcodes defines the process exit codes used by the CLI.
package exitcodes

const (
	OK                 = 0
	General            = 1
	UsageError         = 2
	ConfigError        = 3
	NotFound           = 4
	NetworkError       = 5
	VerificationFailed = 6
)
