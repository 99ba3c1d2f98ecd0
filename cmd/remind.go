package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Emes13/habittrax/internal/remind"
	"github.com/Emes13/habittrax/internal/remind/resend"
	"github.com/Emes13/habittrax/pkg/habit"
	"github.com/spf13/cobra"
)

var (
	remindWatch  time.Duration
	remindLocal  bool
	remindDryRun bool
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Email reminders for habits whose slot has passed",
	Long: `The "remind" command sends one email listing the habits scheduled today
whose reminder time (morning 08:00, afternoon 13:00, evening 19:00) has passed
and which are not yet complete. With --watch it keeps checking and sends each
reminder once per day.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var notifier remind.Notifier = printNotifier{w: cmd.OutOrStdout()}
		if !remindDryRun {
			n, err := resend.New(cfg.Reminders.ResendAPIKey, cfg.Reminders.From, cfg.Reminders.Email)
			if err != nil {
				return fmt.Errorf("reminders are not configured: %w", err)
			}
			notifier = n
		}

		var querier remind.Querier = newClient()
		if remindLocal {
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			userID := cfg.Reminders.UserID
			if userID == "" {
				userID = "anonymous"
			}
			querier = remind.StoreQuerier{Store: st, UserID: userID}
		}

		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		checker := &remind.Checker{Querier: querier, Notifier: notifier, Location: loc}

		if remindWatch <= 0 {
			due, err := checker.Check(cmd.Context())
			if err != nil {
				return err
			}
			if len(due) == 0 {
				cmd.Println("Nothing due")
			}
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := checker.Run(ctx, remindWatch); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

// printNotifier writes reminders to w instead of sending email.
type printNotifier struct {
	w io.Writer
}

func (p printNotifier) Notify(_ context.Context, date habit.Date, due []remind.Due) error {
	for _, d := range due {
		if _, err := fmt.Fprintf(p.w, "%s %s: %s (%s)\n", date, d.Slot, d.Name, d.Status); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	remindCmd.Flags().DurationVar(&remindWatch, "watch", 0, "keep checking at this interval")
	remindCmd.Flags().BoolVar(&remindLocal, "local", false, "read the store directly instead of the API")
	remindCmd.Flags().BoolVar(&remindDryRun, "dry-run", false, "print reminders instead of emailing them")
	rootCmd.AddCommand(remindCmd)
}
