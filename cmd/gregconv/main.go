// Command gregconv converts quad meshes to Gregory patch PCHM files.
//
//	gregconv patch in.obj out.pchm   # 20-point quad patches
//	gregconv raw in.obj out.pchm     # plain mesh with normals and tangents
//	gregconv info file.pchm          # header summary
//	gregconv cage in.obj out.stl     # patch control hulls for inspection
package main

import (
	"log/slog"
	"os"

	"github.com/chazu/gregmesh/pkg/config"
	"github.com/chazu/gregmesh/pkg/logx"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		a          *app
	)

	root := &cobra.Command{
		Use:          "gregconv",
		Short:        "Convert quad meshes to Gregory patch meshes",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts := config.Default()
			if configPath != "" {
				var err error
				if opts, err = config.Load(configPath); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("log-level") {
				opts.LogLevel = logLevel
			}
			level, err := opts.Level()
			if err != nil {
				return err
			}
			logx.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			a = newApp(opts, cmd.OutOrStdout())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "TOML options file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	warn := func(r *result) {
		for _, w := range r.Warnings {
			logx.Logger().Warn(w)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "patch <in.obj> <out.pchm>",
			Short: "Write Gregory patches for every quad face",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := a.Patch(args[0], args[1])
				if err != nil {
					return err
				}
				warn(r)
				return nil
			},
		},
		&cobra.Command{
			Use:   "raw <in.obj> <out.pchm>",
			Short: "Write the input mesh with normals and tangents",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := a.Raw(args[0], args[1])
				if err != nil {
					return err
				}
				warn(r)
				return nil
			},
		},
		&cobra.Command{
			Use:   "info <file.pchm>",
			Short: "Print the counts stored in a PCHM file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.Info(args[0])
			},
		},
		&cobra.Command{
			Use:   "cage <in.obj> <out.stl>",
			Short: "Write patch control hulls as STL",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := a.Cage(args[0], args[1])
				if err != nil {
					return err
				}
				warn(r)
				return nil
			},
		},
	)
	return root
}

// version is stamped by the linker.
var version = "dev"
