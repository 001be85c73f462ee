package cli

import (
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"

	"schedguard/internal/app"
	logx "schedguard/pkg/logx"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Run the inbox spool until interrupted",
		GroupID: "validation",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configRequired(opts); err != nil {
				return err
			}
			a, err := app.New(opts.configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			log := a.Logger()

			ready := func() {
				if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
					log.Warn("sd_notify ready failed", logx.Err(err))
				} else if ok {
					log.Debug("sd_notify ready sent")
				}
			}
			err = a.Watch(cmd.Context(), ready)
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
			return err
		},
	}
}
