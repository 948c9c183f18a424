// Package cli holds the approvalctl commands run by cron and operators.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

// Sweeper runs the scheduled reminder and expiry jobs.
type Sweeper interface {
	SweepScholarReminders(ctx context.Context, today time.Time) (int, error)
	SweepValidatorReminders(ctx context.Context, today time.Time) (int, error)
	ExpireTerms(ctx context.Context, today time.Time) ([]models.TermOfMembership, error)
}

// DeadlineReader answers calendar deadline questions.
type DeadlineReader interface {
	Deadline(ctx context.Context, partnerStateID string, ref time.Time) (*models.CalendarDeadline, error)
}

// Services are built lazily so --help never touches the database.
type Services struct {
	Sweeper   Sweeper
	Deadlines DeadlineReader
	Close     func()
}

// Factory builds the services for one command run.
type Factory func(ctx context.Context) (*Services, error)

// NewRoot returns the approvalctl command tree.
func NewRoot(factory Factory) *cobra.Command {
	root := &cobra.Command{
		Use:           "approvalctl",
		Short:         "Scheduled jobs and diagnostics for the scholarship approval workflow",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	var date string
	root.PersistentFlags().StringVar(&date, "date", "", "reference date YYYY-MM-DD (defaults to today)")

	today := func() (time.Time, error) {
		if date == "" {
			return time.Now().UTC(), nil
		}
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			return time.Time{}, fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}
		return t, nil
	}

	run := func(fn func(ctx context.Context, svc *Services, ref time.Time, out io.Writer) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			ref, err := today()
			if err != nil {
				return err
			}
			svc, err := factory(cmd.Context())
			if err != nil {
				return err
			}
			if svc.Close != nil {
				defer svc.Close()
			}
			return fn(cmd.Context(), svc, ref, cmd.OutOrStdout())
		}
	}

	remind := &cobra.Command{Use: "remind", Short: "Send deadline reminders"}
	remind.AddCommand(&cobra.Command{
		Use:   "scholars",
		Short: "Remind scholars whose monthly report is still missing",
		RunE: run(func(ctx context.Context, svc *Services, ref time.Time, out io.Writer) error {
			sent, err := svc.Sweeper.SweepScholarReminders(ctx, ref)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "scholar reminders sent: %d\n", sent)
			return nil
		}),
	})
	remind.AddCommand(&cobra.Command{
		Use:   "validators",
		Short: "Remind validators with reports pending at their level",
		RunE: run(func(ctx context.Context, svc *Services, ref time.Time, out io.Writer) error {
			sent, err := svc.Sweeper.SweepValidatorReminders(ctx, ref)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "validator reminders sent: %d\n", sent)
			return nil
		}),
	})

	terms := &cobra.Command{Use: "terms", Short: "Term of membership maintenance"}
	terms.AddCommand(&cobra.Command{
		Use:   "expire",
		Short: "Inactivate terms whose end date has passed",
		RunE: run(func(ctx context.Context, svc *Services, ref time.Time, out io.Writer) error {
			expired, err := svc.Sweeper.ExpireTerms(ctx, ref)
			if err != nil {
				return err
			}
			for _, term := range expired {
				fmt.Fprintf(out, "expired %s (user %s)\n", term.ID, term.UserID)
			}
			fmt.Fprintf(out, "terms expired: %d\n", len(expired))
			return nil
		}),
	})

	calendar := &cobra.Command{Use: "calendar", Short: "Inspect approval calendars"}
	calendar.AddCommand(&cobra.Command{
		Use:   "deadline <partner-state-id>",
		Short: "Print the submission and analysis deadlines of a partner state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, svc *Services, ref time.Time, out io.Writer) error {
				d, err := svc.Deadlines.Deadline(ctx, args[0], ref)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "submission deadline: %s (open: %t)\n", d.SubmissionDeadline.Format("2006-01-02"), d.SubmissionWindowOpen)
				if d.AnalysisWindowEnforced {
					fmt.Fprintf(out, "analysis days remaining: %d\n", d.AnalysisDaysRemaining)
				} else {
					fmt.Fprintln(out, "analysis window: not enforced")
				}
				return nil
			})(cmd, args)
		},
	})

	root.AddCommand(remind, terms, calendar)
	return root
}
