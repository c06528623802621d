// Command moderate reviews submitted testimonials. Only approved
// testimonials are served to the website.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"goa.design/clue/log"

	"palaksingh/internal/config"
	"palaksingh/internal/domain"
	"palaksingh/internal/services"
	"palaksingh/internal/store"
)

// opener returns the testimonial service and a cleanup func.
type opener func(ctx context.Context) (*services.TestimonialService, func(), error)

func main() {
	ctx := log.Context(context.Background(), log.WithFormat(log.FormatTerminal))
	if err := newRootCmd(openStore).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func openStore(ctx context.Context) (*services.TestimonialService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	st, err := store.Open(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { _ = st.Close(context.Background()) }
	return services.NewTestimonialService(st, cfg.Testimonials.AutoApprove), closeFn, nil
}

func newRootCmd(open opener) *cobra.Command {
	var (
		svc     *services.TestimonialService
		cleanup func()
	)

	root := &cobra.Command{
		Use:           "moderate",
		Short:         "Review submitted testimonials",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			svc, cleanup, err = open(cmd.Context())
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if cleanup != nil {
				cleanup()
			}
		},
	}

	var limit int
	pending := &cobra.Command{
		Use:   "pending",
		Short: "List testimonials awaiting approval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := svc.Pending(cmd.Context(), 0, limit)
			if err != nil {
				return err
			}
			printTestimonials(cmd.OutOrStdout(), list)
			return nil
		},
	}
	pending.Flags().IntVar(&limit, "limit", store.DefaultLimit, "maximum number of testimonials")

	var listLimit int
	var approvedOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List all testimonials, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				out []domain.Testimonial
				err error
			)
			if approvedOnly {
				out, err = svc.Approved(cmd.Context())
			} else {
				out, err = svc.List(cmd.Context(), 0, listLimit)
			}
			if err != nil {
				return err
			}
			printTestimonials(cmd.OutOrStdout(), out)
			return nil
		},
	}
	list.Flags().IntVar(&listLimit, "limit", store.DefaultLimit, "maximum number of testimonials")
	list.Flags().BoolVar(&approvedOnly, "approved", false, "only approved testimonials, in display order")

	approve := &cobra.Command{
		Use:   "approve <id>",
		Short: "Publish a testimonial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := svc.Approve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "approved %s (%s)\n", t.ID, t.ClientName)
			return nil
		},
	}

	unapprove := &cobra.Command{
		Use:   "unapprove <id>",
		Short: "Hide a published testimonial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := svc.Unapprove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unapproved %s (%s)\n", t.ID, t.ClientName)
			return nil
		},
	}

	reject := &cobra.Command{
		Use:   "reject <id>",
		Short: "Delete a testimonial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := svc.Reject(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rejected %s\n", args[0])
			return nil
		},
	}

	root.AddCommand(pending, list, approve, unapprove, reject)
	return root
}

func printTestimonials(w io.Writer, list []domain.Testimonial) {
	if len(list) == 0 {
		fmt.Fprintln(w, "no testimonials")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCLIENT\tRATING\tEVENT\tAPPROVED\tCREATED\tREVIEW")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%t\t%s\t%s\n",
			t.ID, t.ClientName, t.Rating, t.EventType, t.Approved,
			t.CreatedAt.Format("2006-01-02 15:04"), truncate(t.Review, 60))
	}
	_ = tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
