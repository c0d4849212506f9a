package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Carmen-Shannon/oxy-shapes/engine/shapes"
	"github.com/spf13/cobra"
)

func newStatsCmd(_ *app) *cobra.Command {
	var gen generatorFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print vertex, index and part counts for every shape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SHAPE\tVERTICES\tINDICES\tTRIANGLES\tRADIUS\tPARTS")
			for _, kind := range shapes.Kinds() {
				m, err := shapes.Generate(kind, gen.options()...)
				if err != nil {
					return err
				}
				var parts []string
				for _, p := range m.Parts() {
					r, _ := m.Part(p)
					parts = append(parts, fmt.Sprintf("%s[%d+%d]", p, r.FirstIndex, r.IndexCount))
				}
				partList := strings.Join(parts, " ")
				if partList == "" {
					partList = "-"
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.3f\t%s\n",
					kind, m.VertexCount(), m.IndexCount(), m.IndexCount()/3, m.BoundingRadius(), partList)
			}
			return tw.Flush()
		},
	}
	gen.register(cmd)
	return cmd
}
