package main

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-shapes/engine/mesh"
	"github.com/Carmen-Shannon/oxy-shapes/engine/shapes"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// generatorFlags are the mesh generator settings shared by export and stats.
type generatorFlags struct {
	segments  int
	stacks    int
	thickness float32
	topRadius float32
	topScale  float32
	tiers     int
}

func (g *generatorFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&g.segments, "segments", mesh.DefaultSegments, "Radial slices of round shapes")
	cmd.Flags().IntVar(&g.stacks, "stacks", mesh.DefaultStacks, "Sphere stacks")
	cmd.Flags().Float32Var(&g.thickness, "thickness", mesh.DefaultThickness, "Torus tube radius")
	cmd.Flags().Float32Var(&g.topRadius, "top-radius", mesh.DefaultTopRadius, "Tapered cylinder top radius")
	cmd.Flags().Float32Var(&g.topScale, "top-scale", mesh.DefaultTopScale, "Zig top square scale")
	cmd.Flags().IntVar(&g.tiers, "tiers", mesh.DefaultTiers, "Test zig tier count")
}

func (g *generatorFlags) options() []mesh.GeneratorOption {
	return []mesh.GeneratorOption{
		mesh.WithSegments(g.segments),
		mesh.WithStacks(g.stacks),
		mesh.WithThickness(g.thickness),
		mesh.WithTopRadius(g.topRadius),
		mesh.WithTopScale(g.topScale),
		mesh.WithTiers(g.tiers),
	}
}

func newExportCmd(a *app) *cobra.Command {
	var gen generatorFlags
	var out string

	cmd := &cobra.Command{
		Use:   "export <shape>",
		Short: "Write a shape mesh as Wavefront OBJ",
		Long: `Generates the mesh of one shape on the CPU and writes it as Wavefront OBJ
(positions, texture coordinates, normals and 1-based faces).

Shape names: box, box2, cone, cylinder, plane, prism, pyramid3, pyramid4, sphere,
tapered_cylinder, torus, zig, ramp, testzig.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := shapes.ParseKind(args[0])
			if err != nil {
				return err
			}
			m, err := shapes.Generate(kind, gen.options()...)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				if err := mesh.WriteOBJ(cmd.OutOrStdout(), m); err != nil {
					return fmt.Errorf("write %s: %w", kind, err)
				}
			} else if err := writeOBJFile(out, m); err != nil {
				return err
			}

			a.logger.Debug("mesh exported",
				zap.Stringer("shape", kind),
				zap.Int("vertices", m.VertexCount()),
				zap.Int("indices", m.IndexCount()),
				zap.String("out", out),
			)
			return nil
		},
	}
	gen.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

// writeOBJFile writes m to a new file at path. A failed close is returned like a failed write.
func writeOBJFile(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := mesh.WriteOBJ(f, m); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
