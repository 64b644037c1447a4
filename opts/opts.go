package opts

import (
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

var Opts = struct {
	BaseDir     string `long:"basedir" description:"The basedir of configuration and cache files" default:"."`
	DebugWebRpc bool   `long:"debug-web-rpc" description:"Debug log HTTP requests to the dashboard"`
	DebugOpsApi bool   `long:"debug-ops-api" description:"Debug log requests to the Ops Manager APIs"`
}{}

// Init parses the command line options into Opts.
func Init() {
	if _, err := flags.Parse(&Opts); err != nil {
		zap.L().Sugar().Fatalf("Failed to parse command line options: %s", err.Error())
	}
}
