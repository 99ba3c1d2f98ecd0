package cmd

import (
	"github.com/Emes13/habittrax/pkg/habit"
	"github.com/spf13/cobra"
)

var statusDate string

var toggleCmd = &cobra.Command{
	Use:   "toggle <habit-id>",
	Short: "Toggle a habit between complete and incomplete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := dateArg(statusDate)
		if err != nil {
			return err
		}
		l, err := newClient().Toggle(cmd.Context(), args[0], d)
		if err != nil {
			return err
		}
		cmd.Printf("%s on %s: %s\n", l.HabitID, l.Date, l.Status)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <habit-id> <incomplete|partial|complete|not_applicable>",
	Short: "Set a habit's status explicitly",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := habit.ParseStatus(args[1])
		if err != nil {
			return err
		}
		d, err := dateArg(statusDate)
		if err != nil {
			return err
		}
		l, err := newClient().SetStatus(cmd.Context(), args[0], d, st)
		if err != nil {
			return err
		}
		cmd.Printf("%s on %s: %s\n", l.HabitID, l.Date, l.Status)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{toggleCmd, statusCmd} {
		c.Flags().StringVar(&statusDate, "date", "", "date to update (YYYY-MM-DD, default today)")
		rootCmd.AddCommand(c)
	}
}
