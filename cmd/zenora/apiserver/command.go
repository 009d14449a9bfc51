package apiserver

import (
	"github.com/spf13/cobra"

	"github.com/zenorapm/zenora/internal/business"
	"github.com/zenorapm/zenora/internal/cmdutils"
)

func Cmd() *cobra.Command {
	return cmdutils.CobraCommand(
		"api-server",
		"Zenora API server",
		"Zenora API server hosts the public authentication and dashboard HTTP API.",
		business.Main,
	)
}
