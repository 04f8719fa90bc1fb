package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/packet"
)

// newFetchCmd builds the "fetch" subcommand: express a single Interest
// for a name and print the resulting Data's content to stdout.
// Grounded on the teacher's tools/pingclient.go Run method, cut down
// from a repeating ping loop to a single request/reply.
func newFetchCmd(transportURI *string) *cobra.Command {
	var lifetime time.Duration
	var mustBeFresh bool

	cmd := &cobra.Command{
		Use:   "fetch NAME",
		Short: "Express an Interest and print the Data it retrieves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := parseURIName(args[0])
			if err != nil {
				return fmt.Errorf("ndnclient: parsing name: %w", err)
			}

			client, err := newClient(*transportURI)
			if err != nil {
				return err
			}
			defer client.close()

			interest := packet.NewInterest(name)
			interest.Selectors.MustBeFresh = mustBeFresh

			result := make(chan error, 1)
			err = client.express(interest, lifetime, func(data *packet.Data) {
				fmt.Fprint(cmd.OutOrStdout(), string(data.Content))
				result <- nil
			}, func() {
				result <- fmt.Errorf("ndnclient: interest timed out")
			})
			if err != nil {
				return err
			}
			return <-result
		},
	}
	cmd.Flags().DurationVar(&lifetime, "lifetime", 4*time.Second, "Interest lifetime")
	cmd.Flags().BoolVar(&mustBeFresh, "must-be-fresh", false, "set the MustBeFresh selector")
	return cmd
}

// parseURIName parses a slash-separated NDN name URI ("/a/b/c") into a
// names.Name using generic string components. The teacher's name
// package supports a richer marker syntax (typed, hex-escaped, and
// implicit-digest components); this client only needs plain names,
// so it does not reach for that machinery.
func parseURIName(uri string) (names.Name, error) {
	uri = strings.Trim(uri, "/")
	if uri == "" {
		return names.Parse(), nil
	}
	parts := strings.Split(uri, "/")
	comps := make([]names.Component, len(parts))
	for i, p := range parts {
		comps[i] = names.NewStringComponent(p)
	}
	return names.Parse(comps...), nil
}
