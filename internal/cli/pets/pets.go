package pets

import (
	"fmt"

	"github.com/julianstephens/routine/internal/cli"
	"github.com/julianstephens/routine/internal/models"
)

type PetsListCmd struct{}

func (c *PetsListCmd) Run(ctx *cli.Context) error {
	pets := ctx.Rewards.Pets()
	if len(pets) == 0 {
		fmt.Println("No pets yet. Complete 80% of a week's tasks to earn one.")
		return nil
	}

	fmt.Println(cli.HeaderStyle.Render("Pets:"))
	for _, p := range pets {
		fmt.Printf("  %s\n", cli.PetLine(p))
	}
	return nil
}

type PetsAddCmd struct {
	Type string `arg:"" enum:"cat,dog,rabbit,hamster,bird,fish,turtle,unicorn,dragon" help:"Pet type."`
}

func (c *PetsAddCmd) Run(ctx *cli.Context) error {
	pet, err := ctx.Rewards.AddPet(models.PetType(c.Type), ctx.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Added %s %s\n", pet.Type.Emoji(), pet.DisplayName())
	return nil
}

type PetsClearCmd struct{}

func (c *PetsClearCmd) Run(ctx *cli.Context) error {
	count := len(ctx.Rewards.Pets())
	if err := ctx.Rewards.RemoveAllPets(); err != nil {
		return err
	}
	fmt.Printf("Removed %d pets\n", count)
	return nil
}
