// Command ndnclient is a reference client for the ndncore packet and
// transport layers: it dials a forwarder over a stream transport,
// expresses Interests, and prints the Data it receives.
package main

import (
	"os"

	"github.com/ndn-go/ndncore/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error("ndnclient: exiting", "err", err)
		os.Exit(1)
	}
}
