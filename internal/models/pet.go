package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/routine/internal/constants"
)

type PetType string

const (
	PetCat     PetType = "cat"
	PetDog     PetType = "dog"
	PetRabbit  PetType = "rabbit"
	PetHamster PetType = "hamster"
	PetBird    PetType = "bird"
	PetFish    PetType = "fish"
	PetTurtle  PetType = "turtle"
	PetUnicorn PetType = "unicorn"
	PetDragon  PetType = "dragon"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// AllPetTypes lists every kind, grouped by ascending rarity.
var AllPetTypes = []PetType{
	PetCat, PetDog, PetRabbit, PetHamster,
	PetBird, PetFish, PetTurtle,
	PetUnicorn, PetDragon,
}

func (p PetType) IsValid() bool {
	return p.Rarity() != ""
}

func (p PetType) Rarity() Rarity {
	switch p {
	case PetCat, PetDog, PetRabbit, PetHamster:
		return RarityCommon
	case PetBird, PetFish, PetTurtle:
		return RarityRare
	case PetUnicorn, PetDragon:
		return RarityLegendary
	default:
		return ""
	}
}

func (p PetType) Emoji() string {
	switch p {
	case PetCat:
		return "🐱"
	case PetDog:
		return "🐶"
	case PetRabbit:
		return "🐰"
	case PetHamster:
		return "🐹"
	case PetBird:
		return "🦜"
	case PetFish:
		return "🐠"
	case PetTurtle:
		return "🐢"
	case PetUnicorn:
		return "🦄"
	case PetDragon:
		return "🐲"
	default:
		return "?"
	}
}

// PetTypesByRarity returns the kinds belonging to a tier.
func PetTypesByRarity(r Rarity) []PetType {
	var types []PetType
	for _, t := range AllPetTypes {
		if t.Rarity() == r {
			types = append(types, t)
		}
	}
	return types
}

func (r Rarity) Badge() string {
	switch r {
	case RarityCommon:
		return "⭐️"
	case RarityRare:
		return "⭐️⭐️"
	case RarityLegendary:
		return "⭐️⭐️⭐️"
	default:
		return ""
	}
}

type Pet struct {
	ID         string    `json:"id"`
	Type       PetType   `json:"type"`
	Name       string    `json:"name"`
	Level      int       `json:"level"`
	Experience int       `json:"experience"`
	Happiness  int       `json:"happiness"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewPet(petType PetType, now time.Time) Pet {
	return Pet{
		ID:         uuid.New().String(),
		Type:       petType,
		Name:       fmt.Sprintf("New %s", titleCase(string(petType))),
		Level:      1,
		Experience: 0,
		Happiness:  constants.MaxHappiness,
		CreatedAt:  now,
	}
}

// ExperienceForNextLevel is the threshold that triggers a level-up.
func (p Pet) ExperienceForNextLevel() int {
	return p.Level * constants.ExperiencePerLevel
}

// AddExperience accumulates experience, levelling up as many times as the total allows.
func (p *Pet) AddExperience(amount int) {
	if p.Level < 1 {
		p.Level = 1
	}
	p.Experience += amount
	for p.Experience >= p.ExperienceForNextLevel() {
		p.Experience -= p.ExperienceForNextLevel()
		p.Level++
	}
}

// UpdateHappiness shifts happiness by delta, clamped to [0, 100].
func (p *Pet) UpdateHappiness(delta int) {
	p.Happiness = max(0, min(constants.MaxHappiness, p.Happiness+delta))
}

func (p Pet) DisplayName() string {
	return fmt.Sprintf("%s the %s", p.Name, titleCase(string(p.Type)))
}

func (p Pet) Mood() string {
	switch {
	case p.Happiness >= 80:
		return "😊"
	case p.Happiness >= 60:
		return "🙂"
	case p.Happiness >= 40:
		return "😐"
	case p.Happiness >= 20:
		return "☹️"
	default:
		return "😢"
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
