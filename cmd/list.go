package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/Emes13/habittrax/pkg/habit"
	"github.com/spf13/cobra"
)

var listDate string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits",
	Long: `The "list" command shows the habits scheduled on a date (today by default)
together with their status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return list(cmd)
	},
}

func list(cmd *cobra.Command) error {
	d, err := dateArg(listDate)
	if err != nil {
		return err
	}

	c := newClient()
	habits, err := c.ActiveHabits(cmd.Context(), d)
	if err != nil {
		return err
	}
	logs, err := c.LogsByDate(cmd.Context(), d)
	if err != nil {
		return err
	}
	statuses := make(map[string]habit.Status, len(logs))
	for _, l := range logs {
		statuses[l.HabitID] = l.Status
	}

	if len(habits) == 0 {
		cmd.Printf("No habits scheduled on %s\n", d)
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFREQUENCY\tSTATUS")
	for _, h := range habits {
		st, ok := statuses[h.ID]
		if !ok {
			st = habit.StatusIncomplete
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", h.ID, h.Name, h.Frequency, st)
	}
	return tw.Flush()
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "date to list (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(listCmd)
}
