// Command shapeviewer renders, exports and inspects the built-in parametric shapes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds the state shared by every subcommand.
type app struct {
	configPath string
	verbose    bool
	logger     *zap.Logger
}

// newRootCmd builds the command tree. Each call returns an independent tree.
func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "shapeviewer",
		Short: "Render, export and inspect parametric 3D shapes",
		Long: `shapeviewer draws boxes, cones, cylinders, spheres, tori and the other built-in
shapes through WebGPU, exports any of them as Wavefront OBJ, and prints mesh statistics.

The scene layout (window, camera, shape settings and objects) is read from --config;
.yaml, .yml and .toml files are supported.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "shapeviewer.yaml", "Scene layout file (.yaml, .yml or .toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newViewCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newStatsCmd(a))
	root.AddCommand(newInitCmd(a))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
