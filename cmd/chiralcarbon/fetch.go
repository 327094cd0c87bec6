package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/H1W0XXX/chiralcarbon/chiral"
	"github.com/H1W0XXX/chiralcarbon/config"
	"github.com/H1W0XXX/chiralcarbon/errors"
	"github.com/H1W0XXX/chiralcarbon/mdlmol"
	"github.com/H1W0XXX/chiralcarbon/pubchem"
)

var fetchRandom bool

var fetchCmd = &cobra.Command{
	Use:   "fetch [cid]",
	Short: "Download a PubChem compound and list its chiral carbons",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchRandom, "random", false, "Fetch a random compound instead of a CID")
}

func newPubChemClient(c config.PubChemConfig) *pubchem.Client {
	return pubchem.New(c.BaseURL,
		pubchem.WithTimeout(c.Timeout()),
		pubchem.WithRate(c.RequestsPerSecond),
		pubchem.WithRetries(c.Retries),
	)
}

func runFetch(cmd *cobra.Command, args []string) error {
	client := newPubChemClient(cfg.PubChem)

	var rec *mdlmol.Record
	var err error
	switch {
	case fetchRandom:
		rec, err = client.Random(cmd.Context())
	case len(args) == 1:
		cid, convErr := strconv.Atoi(args[0])
		if convErr != nil || cid < 1 {
			return errors.WithHint(errors.Newf("invalid cid %q", args[0]), "a CID is a positive integer, e.g. 5793")
		}
		rec, err = client.FetchCID(cmd.Context(), cid)
	default:
		return errors.WithHint(errors.New("no compound given"), "pass a CID or --random")
	}
	if err != nil {
		return err
	}

	found := chiral.FindChiralCarbons(rec.Molecule)
	fmt.Fprintf(cmd.OutOrStdout(), "%s\tatoms=%d bonds=%d chiral=%v\n",
		rec.Title, rec.Molecule.NumAtoms(), rec.Molecule.NumBonds(), found)
	return nil
}
