package migrate

import (
	"github.com/spf13/cobra"

	"github.com/zenorapm/zenora/internal/business"
	"github.com/zenorapm/zenora/internal/cmdutils"
)

func Cmd() *cobra.Command {
	return cmdutils.CobraCommand(
		"migrate",
		"Zenora migrations",
		"Zenora migrate applies the pending database migrations.",
		business.MigrateMain,
	)
}
