package main

import (
	"github.com/spf13/cobra"

	"github.com/ndn-go/ndncore/log"
)

// newRootCmd builds the ndnclient root command. Grounded on the
// teacher's fw/cmd/cmd.go: persistent --transport and --log-level flags
// shared by every subcommand, bound with pflag; subcommands receive the
// transport URI through a pointer to the bound flag variable.
func newRootCmd() *cobra.Command {
	var transportURI, logLevel string

	root := &cobra.Command{
		Use:   "ndnclient",
		Short: "Reference client for issuing Interests and printing the Data they retrieve",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(lvl)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&transportURI, "transport", "unix:///run/nfd/nfd.sock",
		"transport URI to connect to the local forwarder")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "INFO",
		"log level (TRACE, DEBUG, INFO, WARN, ERROR, FATAL)")

	root.AddCommand(newFetchCmd(&transportURI))
	return root
}
