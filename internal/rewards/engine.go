// Package rewards grants pets for strong weeks and grows the pets already owned.
package rewards

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/julianstephens/routine/internal/constants"
	"github.com/julianstephens/routine/internal/logger"
	"github.com/julianstephens/routine/internal/models"
	"github.com/julianstephens/routine/internal/storage"
	"github.com/julianstephens/routine/internal/utils"
)

// ProgressSource reports the week's completion totals. *tasks.Store satisfies it.
type ProgressSource interface {
	WeeklyTotals() (completed, scheduled int)
}

// Outcome describes a weekly check.
type Outcome struct {
	// Evaluated is false when the check fell in an already processed week.
	Evaluated  bool
	Rate       float64
	Experience int
	Happiness  int
	Granted    *models.Pet
}

type Engine struct {
	provider storage.Provider
	rng      *rand.Rand
	pets     []models.Pet
}

type Option func(*Engine)

// WithRand sets the random source used for reward draws.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithSeed draws rewards from a PCG source with a fixed seed.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func New(provider storage.Provider, opts ...Option) *Engine {
	e := &Engine{
		provider: provider,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load reads the persisted pets. Undecodable data is logged and dropped.
func (e *Engine) Load() error {
	data, err := e.provider.Get(constants.KeyPets)
	if errors.Is(err, storage.ErrNotFound) {
		e.pets = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load pets: %w", err)
	}

	var pets []models.Pet
	if err := json.Unmarshal(data, &pets); err != nil {
		logger.Warn("Failed to decode pets, starting with none", "error", err)
		e.pets = nil
		return nil
	}
	e.pets = pets
	return nil
}

func (e *Engine) Pets() []models.Pet {
	return slices.Clone(e.pets)
}

// LastCheck returns when weekly progress was last evaluated.
func (e *Engine) LastCheck() (time.Time, bool, error) {
	return storage.GetTime(e.provider, constants.KeyLastRewardCheckAt)
}

// CheckWeeklyProgress evaluates the concluding week once per ISO week
// boundary. With a completion rate of at least 80% a new pet is drawn. Pets
// owned before the draw gain experience and happiness in proportion to the
// rate. A week with nothing scheduled changes no pets.
func (e *Engine) CheckWeeklyProgress(src ProgressSource, now time.Time) (Outcome, error) {
	last, ok, err := e.LastCheck()
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to read last reward check: %w", err)
	}
	if ok && utils.SameISOWeek(last, now) {
		return Outcome{}, nil
	}

	out := Outcome{Evaluated: true}
	completed, scheduled := src.WeeklyTotals()
	if scheduled > 0 {
		out.Rate = float64(completed) / float64(scheduled)
		out.Experience = int(math.Round(out.Rate * 100))
		out.Happiness = int(math.Round((out.Rate - 0.5) * constants.HappinessSwingScale))

		pets := slices.Clone(e.pets)
		for i := range pets {
			pets[i].AddExperience(out.Experience)
			pets[i].UpdateHappiness(out.Happiness)
		}
		if out.Rate >= constants.RewardCompletionThreshold {
			pet := models.NewPet(e.Draw(), now)
			pets = append(pets, pet)
			out.Granted = &pet
		}
		if err := e.commit(pets); err != nil {
			return Outcome{}, err
		}
	}

	if err := storage.SetTime(e.provider, constants.KeyLastRewardCheckAt, now); err != nil {
		return Outcome{}, fmt.Errorf("failed to record reward check: %w", err)
	}

	if out.Granted != nil {
		logger.Info("Weekly reward granted", "rate", out.Rate, "pet", out.Granted.Type, "rarity", out.Granted.Type.Rarity())
	} else {
		logger.Info("Weekly progress checked", "rate", out.Rate, "scheduled", scheduled)
	}
	return out, nil
}

// Draw picks a pet kind: 50% common, 30% rare, 20% legendary, uniform within a tier.
func (e *Engine) Draw() models.PetType {
	types := models.PetTypesByRarity(DrawRarity(e.rng.Float64()))
	return types[e.rng.IntN(len(types))]
}

// DrawRarity maps r in [0, 1) onto a tier.
func DrawRarity(r float64) models.Rarity {
	switch {
	case r < constants.CommonTierCutoff:
		return models.RarityCommon
	case r < constants.RareTierCutoff:
		return models.RarityRare
	default:
		return models.RarityLegendary
	}
}

// AddPet appends a new pet of the given kind.
func (e *Engine) AddPet(petType models.PetType, now time.Time) (models.Pet, error) {
	if !petType.IsValid() {
		return models.Pet{}, fmt.Errorf("unknown pet type %q", petType)
	}
	pet := models.NewPet(petType, now)
	if err := e.commit(append(slices.Clone(e.pets), pet)); err != nil {
		return models.Pet{}, err
	}
	return pet, nil
}

func (e *Engine) RemoveAllPets() error {
	return e.commit([]models.Pet{})
}

func (e *Engine) commit(pets []models.Pet) error {
	if pets == nil {
		pets = []models.Pet{}
	}
	if err := storage.SetJSON(e.provider, constants.KeyPets, pets); err != nil {
		return fmt.Errorf("failed to persist pets: %w", err)
	}
	e.pets = pets
	return nil
}
