package tasks

import (
	"fmt"

	"github.com/julianstephens/routine/internal/cli"
	"github.com/julianstephens/routine/internal/utils"
)

type TaskListCmd struct {
	ShowIDs bool `help:"Show task IDs." name:"show-ids"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	all := ctx.Tasks.Tasks()
	if len(all) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	fmt.Println(cli.HeaderStyle.Render("Tasks:"))
	for _, task := range all {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", task.ID)
		}

		reminders := "no reminders"
		if len(task.NotificationTimes) > 0 {
			reminders = utils.FormatMinutesList(task.NotificationTimes)
			if !task.NotificationEnabled {
				reminders += " (muted)"
			}
		}

		fmt.Printf("  %s%s - %s [%s]\n", task.Title, idStr, cli.DayList(task.WeekDays), reminders)
		if !task.FlaggedDays.IsEmpty() {
			fmt.Printf("      Important: %s\n", cli.DayList(task.FlaggedDays))
		}
		if ctx.Settings.ShowStreaks && task.Streak > 0 {
			fmt.Printf("      Streak: %s %d\n", task.StreakTier().Emoji(), task.Streak)
		}
	}

	return nil
}
