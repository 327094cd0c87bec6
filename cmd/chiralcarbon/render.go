package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/H1W0XXX/chiralcarbon/chiral"
	"github.com/H1W0XXX/chiralcarbon/errors"
	"github.com/H1W0XXX/chiralcarbon/mdlmol"
	"github.com/H1W0XXX/chiralcarbon/render"
)

var (
	renderOut    string
	renderSize   int
	renderRecord int
	renderNoGrid bool
	renderNoMark bool
)

var renderCmd = &cobra.Command{
	Use:   "render <file.mol|file.sdf>",
	Short: "Draw a molecule as PNG with its chiral carbons starred",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "molecule.png", "PNG file to write")
	renderCmd.Flags().IntVar(&renderSize, "size", 0, "Larger drawing extent in pixels (default captcha.max_size)")
	renderCmd.Flags().IntVar(&renderRecord, "record", 1, "1-based record number in an SDF file")
	renderCmd.Flags().BoolVar(&renderNoGrid, "no-grid", false, "Omit the tagged grid")
	renderCmd.Flags().BoolVar(&renderNoMark, "no-marks", false, "Do not star chiral carbons")
}

func runRender(cmd *cobra.Command, args []string) error {
	recs, err := readRecords(args[0])
	if err != nil {
		return err
	}
	var rec *mdlmol.Record
	for _, r := range recs {
		if r.n == renderRecord {
			rec = r.rec
		}
	}
	if rec == nil {
		return errors.Newf("record %d not found or unreadable in %s", renderRecord, args[0])
	}

	size := renderSize
	if size <= 0 {
		size = cfg.Captcha.MaxSize
	}
	found := chiral.FindChiralCarbons(rec.Molecule)
	cols, rows := render.AutoGrid(len(found))
	rc, err := render.CalculateConfig(rec.Molecule, size, cols, rows)
	if err != nil {
		return err
	}
	rc.DrawGrid = !renderNoGrid

	answers := make([]string, 0, len(found))
	for _, idx := range found {
		if !renderNoMark {
			rc.Marked[idx] = true
		}
		answers = append(answers, rc.CellOf(rec.Molecule.MustAtom(idx)))
	}

	png, _, err := render.Render(rec.Molecule, rc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(renderOut, png, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", renderOut)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d, chiral=%v cells=%s\n",
		renderOut, rc.Width, rc.Height, found, strings.Join(answers, ","))
	return nil
}
