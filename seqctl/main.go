// Command seqctl runs operation scripts against an ordered sequence.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/orderedseq/seqctl/cmd"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
