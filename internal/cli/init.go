package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/prflow/internal/config"
	prferrors "github.com/mrz1836/prflow/internal/errors"
	"github.com/mrz1836/prflow/internal/tui"
)

// AddInitCommand registers the init command on the root.
func AddInitCommand(root *cobra.Command) {
	var global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Init writes a config file populated with the defaults, ready for editing.
By default the project config (.prflow/config.yaml) is written; --global
writes ~/.prflow/config.yaml instead. An existing file is only replaced
after interactive confirmation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.ProjectConfigPath()
			if global {
				var err error
				path, err = config.GlobalConfigPath()
				if err != nil {
					return err
				}
			}

			if _, err := os.Stat(path); err == nil {
				overwrite, err := tui.Confirm("Overwrite existing "+path+"?", false)
				if err != nil {
					return err
				}
				if !overwrite {
					return prferrors.ErrMenuCanceled
				}
				if err := os.Remove(path); err != nil {
					return prferrors.Wrap(err, "removing old config")
				}
			}

			if err := config.WriteDefault(path); err != nil {
				return err
			}

			tui.CheckNoColor()
			fmt.Fprintln(cmd.OutOrStdout(), tui.StyleSuccess.Render("✓ wrote "+path))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&global, "global", "g", false, "write the global config (~/.prflow/config.yaml)")

	root.AddCommand(cmd)
}
