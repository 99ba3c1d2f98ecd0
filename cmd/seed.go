package cmd

import (
	"time"

	"github.com/Emes13/habittrax/internal/fixture"
	"github.com/Emes13/habittrax/pkg/habit"
	"github.com/spf13/cobra"
)

var (
	seedUser  string
	seedDays  int
	seedValue uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo habits and a week of history into the store",
	Long: `The "seed" command writes demo data straight into the configured store.
Stop the server first when using the bolt driver, which allows one process at
a time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		seed := seedValue
		if !cmd.Flags().Changed("seed") {
			seed = uint64(time.Now().UnixNano())
		}

		res, err := fixture.Seed(cmd.Context(), st, fixture.Options{
			UserID: seedUser,
			Today:  habit.Today(loc),
			Days:   seedDays,
			Seed:   seed,
		})
		if err != nil {
			return err
		}
		cmd.Printf("Created %d habits and %d logs for %s\n", res.HabitsCreated, res.LogsWritten, seedUser)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedUser, "user", "anonymous", "user id to seed")
	seedCmd.Flags().IntVar(&seedDays, "days", 7, "days of history to generate")
	seedCmd.Flags().Uint64Var(&seedValue, "seed", 0, "random seed for reproducible data")
	rootCmd.AddCommand(seedCmd)
}
