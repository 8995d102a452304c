package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/routine/internal/models"
	"github.com/julianstephens/routine/internal/utils"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	TodayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	DayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	DoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Strikethrough(true)

	FlagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// TaskLine renders one task as it appears in a day listing.
func TaskLine(t models.TaskItem, day models.WeekDay, showStreaks bool, showID bool) string {
	box := "[ ]"
	title := t.Title
	if t.IsCompleted(day) {
		box = "[x]"
		title = DoneStyle.Render(title)
	}

	var b strings.Builder
	b.WriteString(box)
	b.WriteString(" ")
	if t.IsFlagged(day) {
		b.WriteString(FlagStyle.Render("!"))
		b.WriteString(" ")
	}
	b.WriteString(title)

	if len(t.NotificationTimes) > 0 {
		times := utils.FormatMinutesList(t.NotificationTimes)
		if !t.NotificationEnabled {
			times += " (muted)"
		}
		b.WriteString("  ")
		b.WriteString(MutedStyle.Render(times))
	}
	if showStreaks && t.Streak > 0 {
		fmt.Fprintf(&b, "  %s %d", t.StreakTier().Emoji(), t.Streak)
	}
	if showID {
		b.WriteString("  ")
		b.WriteString(MutedStyle.Render(t.ID))
	}
	return b.String()
}

// DayHeader renders the heading of a day listing with its completion summary.
func DayHeader(day models.WeekDay, isToday bool, done, total int) string {
	style := DayStyle
	if isToday {
		style = TodayStyle
	}
	name := strings.ToUpper(day.String()[:1]) + day.String()[1:]
	return fmt.Sprintf("%s %s", style.Render(name), MutedStyle.Render(fmt.Sprintf("%d/%d done", done, total)))
}

// DayList renders a set of days as short names, Monday first.
func DayList(days models.DaySet) string {
	var names []string
	for _, d := range models.AllWeekDays {
		if days.Has(d) {
			names = append(names, d.ShortName())
		}
	}
	return strings.Join(names, ",")
}

// PetLine renders one pet for the pets listing.
func PetLine(p models.Pet) string {
	return fmt.Sprintf("%s %s %s  lvl %d  xp %d/%d  %s %d%%",
		p.Type.Emoji(),
		HeaderStyle.Render(p.DisplayName()),
		p.Type.Rarity().Badge(),
		p.Level,
		p.Experience,
		p.ExperienceForNextLevel(),
		p.Mood(),
		p.Happiness,
	)
}
