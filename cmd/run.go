package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avasilev/inboxzero/internal/auth"
	"github.com/avasilev/inboxzero/internal/gservice"
	"github.com/avasilev/inboxzero/internal/session"
	"github.com/avasilev/inboxzero/internal/triage"
)

func newRunCmd() *cobra.Command {
	var (
		opts       appOptions
		httpAddr   string
		maxResults int64
		messageID  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Triage unread emails interactively",
		Long: `Fetch unread inbox messages and process them one at a time: each processed
email is classified and the matching action (reply draft, archive, trash,
reminder) is executed for real. With --message the given email is processed
once and the command exits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ln, err := listen(httpAddr)
			if err != nil {
				return err
			}
			defer func() { _ = ln.Close() }()

			a, err := buildApp(ln.Addr().String(), opts)
			if err != nil {
				return err
			}
			defer persistToken(a.tok)

			mux := http.NewServeMux()
			mux.Handle("/oauth", auth.NewHTTPHandler(a.tok))
			srv := &http.Server{Handler: mux}
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Println("oauth server failed", err)
				}
			}()
			defer func() { _ = srv.Close() }()

			ctx := cmd.Context()
			if err := ensureToken(ctx, a.tok, a.cfg.RedirectURL); err != nil {
				return err
			}

			ctrl := session.NewController(a.gmail, a.orch, maxResults)

			if messageID != "" {
				return runOnce(ctx, cmd, a, messageID)
			}

			return runInteractive(ctx, cmd, a, ctrl)
		},
	}

	opts.register(cmd.Flags())
	cmd.Flags().StringVar(&httpAddr, "http-addr", "localhost:0", "Listen addr for the OAuth callback")
	cmd.Flags().Int64Var(&maxResults, "max-results", 10, "Max unread emails to fetch")
	cmd.Flags().StringVar(&messageID, "message", "", "Process a single email by ID and exit")

	return cmd
}

func runOnce(ctx context.Context, cmd *cobra.Command, a *app, messageID string) error {
	header, err := a.gmail.GetHeader(ctx, messageID)
	if err != nil {
		return fmt.Errorf("gmail.GetHeader failed: %w", err)
	}

	body := a.gmail.GetBody(ctx, messageID)

	outcome, err := a.orch.Process(ctx, triage.EmailMessage{
		ID:      messageID,
		Subject: header.Subject,
		Sender:  header.Sender,
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("could not complete analysis: %w", err)
	}

	printOutcome(cmd, outcome)
	printReminders(cmd, a)

	return nil
}

func runInteractive(ctx context.Context, cmd *cobra.Command, a *app, ctrl *session.Controller) error {
	out := cmd.OutOrStdout()

	if err := refresh(ctx, cmd, ctrl); err != nil {
		return err
	}

	fmt.Fprintln(out, "Commands: <number> select, r refresh, p process selected, q quit")

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(out, "> ")

	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())

		switch {
		case input == "q":
			printReminders(cmd, a)
			return nil
		case input == "r":
			if err := refresh(ctx, cmd, ctrl); err != nil {
				fmt.Fprintln(out, "Refresh failed:", err)
			}
		case input == "p":
			processSelected(ctx, cmd, a, ctrl)
		case input != "":
			if i, err := strconv.Atoi(input); err == nil {
				if err := ctrl.Select(i - 1); err != nil {
					fmt.Fprintln(out, err)
				} else if header, ok := ctrl.Selected(); ok {
					fmt.Fprintf(out, "Selected: %s\n", header.Subject)
				}
			} else {
				fmt.Fprintln(out, "Unknown command:", input)
			}
		}

		fmt.Fprint(out, "> ")
	}

	return scanner.Err()
}

func processSelected(ctx context.Context, cmd *cobra.Command, a *app, ctrl *session.Controller) {
	out := cmd.OutOrStdout()

	header, ok := ctrl.Selected()
	if !ok {
		fmt.Fprintln(out, "Nothing selected; refresh first.")
		return
	}

	fmt.Fprintf(out, "Processing %q...\n", header.Subject)

	outcome, err := ctrl.Process(ctx)
	switch {
	case errors.Is(err, session.ErrBusy):
		fmt.Fprintln(out, "Still working on the previous email.")
		return
	case err != nil:
		fmt.Fprintln(out, "Could not complete analysis:", err)
		return
	}

	printOutcome(cmd, outcome)

	if outcome.ActionTaken() {
		if err := refresh(ctx, cmd, ctrl); err != nil {
			fmt.Fprintln(out, "Refresh failed:", err)
		}
	}
}

func refresh(ctx context.Context, cmd *cobra.Command, ctrl *session.Controller) error {
	emails, err := ctrl.Refresh(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(emails) == 0 {
		fmt.Fprintln(out, "No unread emails.")
		return nil
	}

	fmt.Fprintf(out, "Found %d unread emails:\n", len(emails))
	for i, e := range emails {
		fmt.Fprintf(out, "%3d. %s - %s\n", i+1, senderDisplay(e), e.Subject)
	}

	return nil
}

func printOutcome(cmd *cobra.Command, outcome *triage.Outcome) {
	out := cmd.OutOrStdout()

	for _, step := range outcome.Steps {
		fmt.Fprintf(out, " -> %s: %s %s\n", step.Invocation.Name, step.Result.Status, step.Result.Message)
	}

	fmt.Fprintln(out, "Final report:")
	fmt.Fprintln(out, " ", outcome.FinalReport)
}

func printReminders(cmd *cobra.Command, a *app) {
	if a.memory == nil {
		return
	}

	entries := a.memory.Entries()
	if len(entries) == 0 {
		return
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Reminders recorded this session:")
	for _, e := range entries {
		fmt.Fprintf(out, "  - %s on %s\n", e.Task, e.Date)
	}
}

func senderDisplay(h gservice.MessageHeader) string {
	if name, _, found := strings.Cut(h.Sender, "<"); found && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}

	return h.Sender
}

func persistToken(tok *auth.Token) {
	log.Println("Persisting token if exists")
	if err := tok.Persist(); err != nil {
		log.Println(fmt.Errorf("tok.Persist failed: %w", err))
	}
}
