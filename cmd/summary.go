package cmd

import (
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <habit-id>",
	Short: "Show streaks and totals for a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newClient().GetHabitSummary(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		cmd.Printf("%s\n", s.Name)
		cmd.Printf("  current streak: %d\n", s.CurrentStreak)
		cmd.Printf("  longest streak: %d\n", s.LongestStreak)
		cmd.Printf("  days done:      %d (this month %d, best month %d)\n", s.TotalDaysDone, s.ThisMonth, s.BestMonth)
		if !s.FirstLogged.IsZero() {
			cmd.Printf("  first logged:   %s\n", s.FirstLogged)
		}
		if !s.LastCompleted.IsZero() {
			cmd.Printf("  last completed: %s\n", s.LastCompleted)
		}
		return nil
	},
}

var todayDate string

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show the completion rate for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := dateArg(todayDate)
		if err != nil {
			return err
		}
		snap, err := newClient().DailyStats(cmd.Context(), d)
		if err != nil {
			return err
		}
		cmd.Printf("%s: %d of %d done (%.0f%%), %d partial, %d not applicable\n",
			d, snap.Complete, snap.Denominator(), snap.CompletionRate*100, snap.Partial, snap.NotApplicable)
		return nil
	},
}

func init() {
	todayCmd.Flags().StringVar(&todayDate, "date", "", "date to report (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(todayCmd)
}
