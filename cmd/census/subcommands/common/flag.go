package common

import "os"

type CommonFlags struct {
	Server string `flag:"server" help:"URL of the census API root"`
}

// DefaultFlags detects default flag values from the process environment.
//
// CENSUS_SERVER overrides the compiled-in default.
func DefaultFlags() CommonFlags {
	server := os.Getenv("CENSUS_SERVER")
	if server == "" {
		server = "http://localhost:8780/api"
	}
	return CommonFlags{Server: server}
}
