package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndn-go/ndncore/names"
)

func TestParseURINameSplitsOnSlash(t *testing.T) {
	n, err := parseURIName("/a/b/c")
	require.NoError(t, err)
	require.Equal(t, names.Parse(
		names.NewStringComponent("a"),
		names.NewStringComponent("b"),
		names.NewStringComponent("c"),
	), n)
}

func TestParseURINameIgnoresLeadingAndTrailingSlash(t *testing.T) {
	n, err := parseURIName("/a/b/")
	require.NoError(t, err)
	require.Equal(t, names.Parse(names.NewStringComponent("a"), names.NewStringComponent("b")), n)
}

func TestParseURINameEmptyIsRootName(t *testing.T) {
	n, err := parseURIName("/")
	require.NoError(t, err)
	require.Equal(t, names.Parse(), n)
}

func TestRootCmdRegistersFetchSubcommand(t *testing.T) {
	root := newRootCmd()
	cmd, _, err := root.Find([]string{"fetch"})
	require.NoError(t, err)
	require.Equal(t, "fetch", cmd.Name())
}
