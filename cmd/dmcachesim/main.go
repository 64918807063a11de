// Command dmcachesim runs add-rows matrix traces through a direct-mapped cache
// and reports the compulsory misses, conflict misses and hit rate of each run.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/dmcachesim/cmd/dmcachesim/cmd"
)

func main() {
	atexit.Exit(cmd.Execute())
}
