package tasks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/routine/internal/cli"
	"github.com/julianstephens/routine/internal/constants"
	"github.com/julianstephens/routine/internal/models"
	"github.com/julianstephens/routine/internal/utils"
)

type TaskAddCmd struct {
	Title    string `arg:"" optional:"" help:"Task title. Omit to fill in a form."`
	Days     string `short:"d" help:"Comma-separated weekdays (e.g. mon,wed,fri)."`
	Times    string `short:"t" help:"Comma-separated reminder times (HH:MM). Defaults to the configured default times."`
	Flag     string `short:"f" help:"Comma-separated weekdays to mark as important."`
	NoRemind bool   `help:"Create the task without reminders." name:"no-remind"`
}

// taskForm holds the values edited by the interactive form.
type taskForm struct {
	Title string
	Days  []models.WeekDay
	Times string
}

func newTaskForm(fm *taskForm) *huh.Form {
	dayOptions := make([]huh.Option[models.WeekDay], 0, len(models.AllWeekDays))
	for _, d := range models.AllWeekDays {
		dayOptions = append(dayOptions, huh.NewOption(d.ShortName(), d))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					return nil
				}),
			huh.NewMultiSelect[models.WeekDay]().
				Title("Days").
				Options(dayOptions...).
				Value(&fm.Days).
				Validate(func(days []models.WeekDay) error {
					if len(days) == 0 {
						return fmt.Errorf("pick at least one day")
					}
					return nil
				}),
			huh.NewInput().
				Title("Reminder times (HH:MM, comma separated)").
				Description("Leave empty for no reminders").
				Value(&fm.Times).
				Validate(func(s string) error {
					_, err := utils.ParseTimesToMinutes(s)
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	ok, err := ctx.Premium.CanAddMoreTasks(len(ctx.Tasks.Tasks()))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("the free tier is limited to %d tasks; run 'routine premium unlock' to lift the limit", constants.MaxTasksInFree)
	}

	var (
		title string
		days  models.DaySet
		times []int
	)

	if strings.TrimSpace(c.Title) == "" {
		fm := &taskForm{Times: utils.FormatMinutesList(ctx.Settings.DefaultNotificationTimes)}
		if err := newTaskForm(fm).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("Cancelled")
				return nil
			}
			return err
		}
		title = fm.Title
		days = models.NewDaySet(fm.Days...)
		if times, err = utils.ParseTimesToMinutes(fm.Times); err != nil {
			return err
		}
	} else {
		title = c.Title
		if days, err = utils.ParseWeekDays(c.Days); err != nil {
			return err
		}
		switch {
		case c.NoRemind:
		case c.Times != "":
			if times, err = utils.ParseTimesToMinutes(c.Times); err != nil {
				return err
			}
		default:
			times = ctx.Settings.DefaultNotificationTimes
		}
	}

	if err := checkTimeLimit(ctx, len(models.NormalizeTimes(times))); err != nil {
		return err
	}

	task := models.NewTaskItem(title, days, times, ctx.Now())
	if c.Flag != "" {
		flagged, err := utils.ParseWeekDays(c.Flag)
		if err != nil {
			return err
		}
		task.FlaggedDays = flagged
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	if err := ctx.Tasks.AddTask(task); err != nil {
		return err
	}

	fmt.Printf("Added task: %s on %s (ID: %s)\n", task.Title, cli.DayList(task.WeekDays), task.ID)
	return nil
}

// checkTimeLimit fails when a task would carry more reminder times than the
// free tier allows.
func checkTimeLimit(ctx *cli.Context, count int) error {
	if count == 0 {
		return nil
	}
	ok, err := ctx.Premium.CanAddMoreNotificationTimes(count - 1)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("the free tier allows %d reminder times per task; run 'routine premium unlock' to lift the limit", constants.MaxNotificationTimesInFree)
	}
	return nil
}
