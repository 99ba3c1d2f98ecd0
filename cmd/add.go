package cmd

import (
	"fmt"
	"strings"

	"github.com/Emes13/habittrax/internal/server"
	"github.com/Emes13/habittrax/pkg/habit"
	"github.com/spf13/cobra"
)

var (
	addCategory    string
	addDescription string
	addFrequency   string
	addStartDay    int
	addDays        []int
	addReminder    string
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a habit",
	Long: `The "add" command creates a habit. Weekly habits need --start-day and
custom habits need --days, both counting Monday as 0.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		categories, err := c.ListCategories(cmd.Context())
		if err != nil {
			return err
		}
		categoryID := ""
		for _, cat := range categories {
			if cat.ID == addCategory || strings.EqualFold(cat.Name, addCategory) {
				categoryID = cat.ID
				break
			}
		}
		if categoryID == "" {
			return fmt.Errorf("unknown category %q", addCategory)
		}

		req := server.HabitRequest{
			CategoryID:   categoryID,
			Name:         args[0],
			Description:  addDescription,
			Frequency:    habit.Frequency(addFrequency),
			DaysOfWeek:   addDays,
			ReminderTime: habit.ReminderTime(addReminder),
		}
		if cmd.Flags().Changed("start-day") {
			req.StartDay = &addStartDay
		}

		h, err := c.CreateHabit(cmd.Context(), req)
		if err != nil {
			return err
		}
		cmd.Printf("Created %s (%s)\n", h.Name, h.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addCategory, "category", "Health", "category name or id")
	addCmd.Flags().StringVar(&addDescription, "description", "", "optional description")
	addCmd.Flags().StringVar(&addFrequency, "frequency", "daily", "daily, weekly or custom")
	addCmd.Flags().IntVar(&addStartDay, "start-day", 0, "weekday of a weekly habit (0=Monday)")
	addCmd.Flags().IntSliceVar(&addDays, "days", nil, "weekdays of a custom habit (0=Monday)")
	addCmd.Flags().StringVar(&addReminder, "reminder", "none", "none, anytime, morning, afternoon or evening")
	rootCmd.AddCommand(addCmd)
}
