package refresher

import (
	"github.com/spf13/cobra"

	"github.com/zenorapm/zenora/internal/business"
	"github.com/zenorapm/zenora/internal/cmdutils"
)

func Cmd() *cobra.Command {
	return cmdutils.CobraCommand(
		"refresher",
		"Zenora session refresher",
		"Zenora session refresher keeps mirrored sessions alive and sweeps expired ones.",
		business.RefresherMain,
	)
}
