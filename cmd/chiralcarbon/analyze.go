package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/H1W0XXX/chiralcarbon/chiral"
	"github.com/H1W0XXX/chiralcarbon/errors"
	"github.com/H1W0XXX/chiralcarbon/logger"
	"github.com/H1W0XXX/chiralcarbon/mdlmol"
	"github.com/H1W0XXX/chiralcarbon/molecule"
)

var (
	analyzeWorkers int
	analyzeJSON    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.mol|file.sdf>...",
	Short: "List the chiral carbons of every record",
	Long: `Parse MOL or SDF files and print the 1-based indices of the chiral carbons
of each record. Records that fail to parse are logged and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeWorkers, "workers", "w", 0, "Concurrent analyses (0 = GOMAXPROCS)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print one JSON object per record")
}

type analysis struct {
	File   string `json:"file"`
	Record int    `json:"record"`
	Title  string `json:"title"`
	Atoms  int    `json:"atoms"`
	Bonds  int    `json:"bonds"`
	Chiral []int  `json:"chiral"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.Named("analyze")

	var rows []analysis
	var mols []*molecule.Molecule
	for _, path := range args {
		recs, err := readRecords(path)
		if err != nil {
			return err
		}
		for _, r := range recs {
			rows = append(rows, analysis{
				File:   path,
				Record: r.n,
				Title:  r.rec.Title,
				Atoms:  r.rec.Molecule.NumAtoms(),
				Bonds:  r.rec.Molecule.NumBonds(),
			})
			mols = append(mols, r.rec.Molecule)
		}
	}

	results, err := chiral.AnalyzeAll(cmd.Context(), mols, analyzeWorkers)
	if err != nil {
		return errors.Wrap(err, "analyze")
	}
	log.Debugw("analyzed", logger.FieldRecords, len(mols))

	out := cmd.OutOrStdout()
	for i := range rows {
		rows[i].Chiral = results[i]
		if err := printAnalysis(out, rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func printAnalysis(w io.Writer, a analysis) error {
	if analyzeJSON {
		if a.Chiral == nil {
			a.Chiral = []int{}
		}
		return json.NewEncoder(w).Encode(a)
	}
	_, err := fmt.Fprintf(w, "%s#%d\t%s\tatoms=%d bonds=%d chiral=%v\n",
		a.File, a.Record, a.Title, a.Atoms, a.Bonds, a.Chiral)
	return err
}

type numberedRecord struct {
	n   int
	rec *mdlmol.Record
}

// readRecords parses every record of a MOL or SDF file, logging and skipping
// the ones that fail.
func readRecords(path string) ([]numberedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	log := logger.Named("analyze")
	var recs []numberedRecord
	sc := mdlmol.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		rec, err := mdlmol.ParseRecord(sc.Text())
		if err != nil {
			log.Warnw("skipping record", logger.FieldFile, path, logger.FieldRecord, n, logger.FieldError, err)
			continue
		}
		recs = append(recs, numberedRecord{n: n, rec: rec})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return recs, nil
}
