package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/H1W0XXX/chiralcarbon/errors"
	"github.com/H1W0XXX/chiralcarbon/logger"
	"github.com/H1W0XXX/chiralcarbon/mdlmol"
)

var indexOut string

var indexCmd = &cobra.Command{
	Use:   "index <file.sdf>",
	Short: "Write the record offset index of an SDF file",
	Long: `Scan an SDF file and write the byte offset of each record, one per line.
The server uses the index to read a random record without loading the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexOut, "output", "o", "", "Index file (default: the SDF path with .index)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	sdfPath := args[0]
	out := indexOut
	if out == "" {
		out = strings.TrimSuffix(sdfPath, ".sdf") + ".index"
	}

	in, err := os.Open(sdfPath)
	if err != nil {
		return errors.Wrapf(err, "open %s", sdfPath)
	}
	defer in.Close()

	offsets, err := mdlmol.BuildIndex(in)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(err, "create %s", out)
	}
	if err := mdlmol.WriteIndex(f, offsets); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", out)
	}

	logger.Named("index").Infow("index written", logger.FieldFile, out, logger.FieldRecords, len(offsets))
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records\n", out, len(offsets))
	return nil
}
