package main

import (
	"cmsdata/cmd/cmsdata/commands"
	"cmsdata/lib/util/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
