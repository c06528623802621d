// Command studio is a terminal front end for the website's booking and
// review forms. It talks to the API named by BACKEND_URL.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"goa.design/clue/log"

	"palaksingh/internal/client"
	"palaksingh/internal/config"
	"palaksingh/internal/domain"
	"palaksingh/internal/flow"
)

// Shown with every failed submission.
const (
	contactPhone    = "+91 91428 71157"
	contactWhatsApp = "https://wa.me/919142871157"
	contactEmail    = "hello@palaksingh.com"
)

// errNotSubmitted makes the process exit non-zero after the notification
// has already been printed.
var errNotSubmitted = errors.New("not submitted")

type connector func() (*client.Client, error)

func main() {
	var opts []log.LogOption
	if log.IsTerminal() {
		opts = append(opts, log.WithFormat(log.FormatTerminal))
	}
	if os.Getenv("DEBUG") == "true" {
		opts = append(opts, log.WithDebug())
	}
	ctx := log.Context(context.Background(), opts...)

	if err := newRootCmd(connectFromEnv).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func connectFromEnv() (*client.Client, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}
	return client.New(cfg.BackendURL, client.WithTimeout(cfg.Timeout))
}

func newRootCmd(connect connector) *cobra.Command {
	var c *client.Client

	root := &cobra.Command{
		Use:          "studio",
		Short:        "Book a session or leave a review",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "event-types" {
				return nil
			}
			var err error
			c, err = connect()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return nil
		},
	}
	root.SetErrPrefix("studio:")

	root.AddCommand(
		newBookCmd(func() *client.Client { return c }),
		newReviewCmd(func() *client.Client { return c }),
		newTestimonialsCmd(func() *client.Client { return c }),
		newEventTypesCmd(),
	)
	return root
}

func newBookCmd(get func() *client.Client) *cobra.Command {
	fields := map[string]*string{}
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Send a booking enquiry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := flow.NewBookingFlow(get())
			for _, name := range []string{"name", "phone", "email", "event_type", "event_date", "city", "message"} {
				if v := *fields[name]; v != "" {
					if err := f.UpdateField(name, v); err != nil {
						return err
					}
				}
			}
			n, err := f.Submit(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), n)
		},
	}
	for _, fl := range []struct{ field, flag, usage string }{
		{"name", "name", "your name"},
		{"phone", "phone", "phone number"},
		{"email", "email", "email address"},
		{"event_type", "event-type", "occasion, e.g. bridal or \"Party Makeup\""},
		{"event_date", "date", "event date, YYYY-MM-DD"},
		{"city", "city", "event city"},
		{"message", "message", "anything else we should know"},
	} {
		fields[fl.field] = cmd.Flags().String(fl.flag, "", fl.usage)
	}
	return cmd
}

func newReviewCmd(get func() *client.Client) *cobra.Command {
	var name, review, eventType string
	var rating int
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Leave a review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := flow.NewTestimonialFlow(cmd.Context(), get())
			f.OpenForm()
			if err := f.SetRating(rating); err != nil {
				return err
			}
			for field, v := range map[string]string{"client_name": name, "review": review, "event_type": eventType} {
				if err := f.UpdateField(field, v); err != nil {
					return err
				}
			}
			n, err := f.Submit(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), n)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().IntVar(&rating, "rating", domain.DefaultRating, "rating from 1 to 5")
	cmd.Flags().StringVar(&review, "review", "", "your review")
	cmd.Flags().StringVar(&eventType, "event-type", "", "occasion (optional)")
	return cmd
}

func newTestimonialsCmd(get func() *client.Client) *cobra.Command {
	var index int
	var next, previous, all bool
	cmd := &cobra.Command{
		Use:   "testimonials",
		Short: "Browse client testimonials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := flow.NewTestimonialFlow(cmd.Context(), get())
			out := cmd.OutOrStdout()

			if all {
				for i, t := range f.Testimonials() {
					printCard(out, i, f.Len(), t)
				}
				return nil
			}

			if index < 0 || index >= f.Len() {
				return fmt.Errorf("--index must be between 0 and %d", f.Len()-1)
			}
			f.JumpTo(index)
			switch {
			case next:
				f.Next()
			case previous:
				f.Previous()
			}
			printCard(out, f.Index(), f.Len(), f.Current())
			return nil
		},
	}
	cmd.Flags().IntVar(&index, "index", 0, "testimonial to show")
	cmd.Flags().BoolVar(&next, "next", false, "show the one after --index")
	cmd.Flags().BoolVar(&previous, "previous", false, "show the one before --index")
	cmd.Flags().BoolVar(&all, "all", false, "show every testimonial")
	cmd.MarkFlagsMutuallyExclusive("next", "previous", "all")
	return cmd
}

func newEventTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "event-types",
		Short: "List the occasions a booking can be made for",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, et := range domain.EventTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), et)
			}
		},
	}
}

func printCard(w io.Writer, i, n int, t domain.Testimonial) {
	fmt.Fprintf(w, "[%d/%d] %s %s\n", i+1, n, strings.Repeat("★", t.Rating), t.ClientName)
	if t.EventType != "" {
		fmt.Fprintf(w, "      %s\n", t.EventType)
	}
	fmt.Fprintf(w, "      %s\n\n", strconv.Quote(t.Review))
}

// report prints the notification, plus the contact details when the
// submission did not go through.
func report(w io.Writer, n flow.Notification) error {
	fmt.Fprintln(w, n.Message)
	switch n.Outcome {
	case flow.Succeeded:
		return nil
	case flow.Invalid:
		if n.Err != nil && n.Message != n.Err.Error() {
			fmt.Fprintf(w, "  (%v)\n", n.Err)
		}
	default:
		fmt.Fprintf(w, "Call %s, WhatsApp %s or email %s\n", contactPhone, contactWhatsApp, contactEmail)
	}
	return errNotSubmitted
}
