// Package captcha serves "find the chiral carbons" challenges: a molecule is
// drawn over a lettered grid and the user picks every cell holding a
// stereocenter.
package captcha

import (
	"context"
	"encoding/base64"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/H1W0XXX/chiralcarbon/chiral"
	"github.com/H1W0XXX/chiralcarbon/errors"
	"github.com/H1W0XXX/chiralcarbon/logger"
	"github.com/H1W0XXX/chiralcarbon/mdlmol"
	"github.com/H1W0XXX/chiralcarbon/render"
)

// ErrNoCandidate is returned by Start when no drawn molecule was usable.
var ErrNoCandidate = errors.New("not enough chiral carbons")

// Options tune challenge generation.
type Options struct {
	MinChiral int           // stereocenters a molecule needs to be used
	Attempts  int           // molecules drawn before giving up
	MaxSize   int           // larger canvas extent in pixels, before margins
	TTL       time.Duration // how long a challenge can be answered
}

func DefaultOptions() Options {
	return Options{MinChiral: 3, Attempts: 5, MaxSize: 600, TTL: 5 * time.Minute}
}

type Service struct {
	source Source
	store  Store
	opts   Options

	now   func() time.Time
	newID func() string
}

func NewService(source Source, store Store, opts Options) *Service {
	return &Service{
		source: source,
		store:  store,
		opts:   opts,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// candidate is a molecule that passed the stereocenter threshold.
type candidate struct {
	rec    *mdlmol.Record
	chiral []int
}

func (s *Service) pick(ctx context.Context) (*candidate, error) {
	log := logger.Named("captcha")
	for attempt := 1; attempt <= max(s.opts.Attempts, 1); attempt++ {
		rec, err := s.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrap(ctx.Err(), "pick molecule")
			}
			log.Debugw("source failed", logger.FieldAttempt, attempt, logger.FieldError, err)
			continue
		}
		found := chiral.FindChiralCarbons(rec.Molecule)
		log.Debugw("candidate",
			logger.FieldAttempt, attempt,
			logger.FieldAtoms, rec.Molecule.NumAtoms(),
			logger.FieldBonds, rec.Molecule.NumBonds(),
			logger.FieldChiral, len(found))
		if len(found) >= s.opts.MinChiral {
			return &candidate{rec: rec, chiral: found}, nil
		}
	}
	return nil, errors.Mark(errors.Newf("no molecule in %d attempts had %d stereocenters", s.opts.Attempts, s.opts.MinChiral), ErrNoCandidate)
}

// Start draws a molecule, renders it and stores the expected answers.
func (s *Service) Start(ctx context.Context) (*StartResponse, error) {
	cand, err := s.pick(ctx)
	if err != nil {
		return nil, err
	}
	mol := cand.rec.Molecule

	cols, rows := render.AutoGrid(len(cand.chiral))
	cfg, err := render.CalculateConfig(mol, s.opts.MaxSize, cols, rows)
	if err != nil {
		return nil, errors.Wrap(err, "calculate render config")
	}
	for _, idx := range cand.chiral {
		cfg.Marked[idx] = true
	}

	png, regions, err := render.Render(mol, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "draw molecule")
	}

	answers := make([]string, 0, len(cand.chiral))
	for _, idx := range cand.chiral {
		answers = append(answers, cfg.CellOf(mol.MustAtom(idx)))
	}
	slices.Sort(answers)
	answers = slices.Compact(answers)

	now := s.now()
	c := &Challenge{
		ID:        s.newID(),
		Regions:   regions,
		Answers:   answers,
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.TTL),
	}
	if err := s.store.Put(ctx, c); err != nil {
		return nil, errors.Wrap(err, "store challenge")
	}
	logger.Named("captcha").Infow("challenge created",
		logger.FieldChallengeID, c.ID,
		logger.FieldCID, cand.rec.Title,
		logger.FieldChiral, len(cand.chiral))

	return &StartResponse{
		UUID:    c.ID,
		Image:   "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		Regions: regions,
	}, nil
}

// Verify consumes the challenge and reports whether the selected cells are
// exactly the answer cells. Order and repeats in selections do not matter.
func (s *Service) Verify(ctx context.Context, id string, selections []string) (bool, error) {
	if id == "" {
		return false, errors.Mark(errors.New("missing challenge id"), errors.ErrInvalidRequest)
	}
	c, err := s.store.Take(ctx, id)
	if err != nil {
		return false, err
	}
	if !s.now().Before(c.ExpiresAt) {
		return false, errors.Mark(errors.Newf("challenge %s expired at %s", id, c.ExpiresAt.Format(time.RFC3339)), errors.ErrExpired)
	}

	picked := slices.Clone(selections)
	slices.Sort(picked)
	picked = slices.Compact(picked)
	ok := slices.Equal(picked, c.Answers)

	logger.Named("captcha").Infow("challenge verified",
		logger.FieldChallengeID, id,
		logger.FieldSuccess, ok)
	return ok, nil
}

// Purge drops expired challenges from the store.
func (s *Service) Purge(ctx context.Context) (int, error) {
	return s.store.Purge(ctx, s.now())
}
