package week

import (
	"fmt"

	"github.com/julianstephens/routine/internal/cli"
	"github.com/julianstephens/routine/internal/models"
)

type DayCmd struct {
	Day     string `arg:"" optional:"" help:"Weekday to show." default:"today"`
	ShowIDs bool   `help:"Show task IDs." name:"show-ids"`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ParseDay(c.Day)
	if err != nil {
		return err
	}
	printDay(ctx, day, c.ShowIDs)

	total := ctx.Tasks.TotalTasksCount(day)
	if total > 0 {
		fmt.Printf("\n%s\n", cli.MutedStyle.Render(fmt.Sprintf("%.0f%% complete", ctx.Tasks.CompletionRate(day)*100)))
	}
	return nil
}

type WeekCmd struct {
	ShowIDs bool `help:"Show task IDs." name:"show-ids"`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	days := ctx.Tasks.ActiveDays(ctx.Today())
	if len(days) == 0 {
		fmt.Println("No tasks scheduled this week")
		return nil
	}

	for i, day := range days {
		if i > 0 {
			fmt.Println()
		}
		printDay(ctx, day, c.ShowIDs)
	}

	completed, scheduled := ctx.Tasks.WeeklyTotals()
	rate := 0.0
	if scheduled > 0 {
		rate = float64(completed) / float64(scheduled)
	}
	fmt.Printf("\n%s %d/%d (%.0f%%)\n", cli.HeaderStyle.Render("Week:"), completed, scheduled, rate*100)
	return nil
}

func printDay(ctx *cli.Context, day models.WeekDay, showIDs bool) {
	fmt.Println(cli.DayHeader(day, day == ctx.Today(), ctx.Tasks.CompletedTasksCount(day), ctx.Tasks.TotalTasksCount(day)))

	list := ctx.Tasks.TasksForDay(day)
	if len(list) == 0 {
		fmt.Println("  No tasks scheduled")
		return
	}
	for _, t := range list {
		fmt.Printf("  %s\n", cli.TaskLine(t, day, ctx.Settings.ShowStreaks, showIDs))
	}
}
