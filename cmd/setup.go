package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/avasilev/inboxzero/internal/auth"
	"github.com/avasilev/inboxzero/internal/engine"
	"github.com/avasilev/inboxzero/internal/format"
	"github.com/avasilev/inboxzero/internal/gservice"
	"github.com/avasilev/inboxzero/internal/reminders"
	"github.com/avasilev/inboxzero/internal/triage"
)

// appOptions collects the flags shared by run and serve.
type appOptions struct {
	envFile        string
	tokenFile      string
	oauthURL       string
	model          string
	engineTimeout  time.Duration
	tasksReminders bool
	followUpDraft  bool
}

func (o *appOptions) register(flags *pflag.FlagSet) {
	flags.StringVar(&o.envFile, "env-file", "", "Path to env file")
	flags.StringVar(&o.tokenFile, "oauth-token-file", "./data/inboxzero-token.json", "Path to cache the google oauth token, empty to avoid storing")
	flags.StringVar(&o.oauthURL, "oauth-url", "", "Externally visible OAuth callback URL")
	flags.StringVar(&o.model, "model", "", "Reasoning engine model (default gpt-4o-mini)")
	flags.DurationVar(&o.engineTimeout, "engine-timeout", 2*time.Minute, "Upper bound for one reasoning engine run")
	flags.BoolVar(&o.tasksReminders, "tasks-reminders", false, "Store reminders in Google Tasks instead of memory")
	flags.BoolVar(&o.followUpDraft, "followup-draft", true, "Allow a reply draft in addition to the reminder for FOLLOW_UP emails")
}

// app holds the wired components of one invocation.
type app struct {
	cfg     *oauth2.Config
	tok     *auth.Token
	gmail   *gservice.GMail
	toolbox *triage.Toolbox
	orch    *triage.Orchestrator
	memory  *reminders.Memory
}

func buildApp(lnAddr string, opts appOptions) (*app, error) {
	cfg, err := oauthConfig(lnAddr, opts)
	if err != nil {
		return nil, err
	}

	tok, err := auth.NewToken(cfg, opts.tokenFile)
	if err != nil {
		return nil, fmt.Errorf("auth.NewToken failed: %w", err)
	}

	gmail := gservice.NewGmail(cfg, tok, format.NewConverter())

	a := &app{
		cfg:   cfg,
		tok:   tok,
		gmail: gmail,
	}

	var sink reminders.Sink
	if opts.tasksReminders {
		sink = reminders.NewGoogleTasks(cfg, tok)
	} else {
		a.memory = reminders.NewMemory()
		sink = a.memory
	}

	a.toolbox = triage.NewToolbox(gmail, sink)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("env variable OPENAI_API_KEY must be set")
	}

	eng := engine.NewOpenAI(engine.OpenAIConfig{
		APIKey:  apiKey,
		Model:   opts.model,
		Timeout: opts.engineTimeout,
	})

	a.orch = triage.NewOrchestrator(eng, a.toolbox, triage.Options{
		FollowUpDraft: opts.followUpDraft,
	})

	return a, nil
}

func oauthConfig(lnAddr string, opts appOptions) (*oauth2.Config, error) {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			return nil, fmt.Errorf("godotenv.Load failed: %w", err)
		}
	}

	clientID := os.Getenv("OAUTH_GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("OAUTH_GOOGLE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("env variables OAUTH_GOOGLE_CLIENT_ID and OAUTH_GOOGLE_CLIENT_SECRET must be set")
	}

	redirectURL := fmt.Sprintf("http://%s/oauth", lnAddr)
	if opts.oauthURL != "" {
		redirectURL = opts.oauthURL
	}

	scopes := []string{gmail.GmailModifyScope}
	if opts.tasksReminders {
		scopes = append(scopes, tasks.TasksScope)
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}, nil
}

func listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.Listen failed: %w", err)
	}

	return ln, nil
}

// ensureToken blocks until the OAuth flow completes. It opens the browser on
// the flow's entry URL and polls the token store.
func ensureToken(ctx context.Context, tok *auth.Token, entryURL string) error {
	if _, err := tok.OAuthToken(); err == nil {
		return nil
	}

	openBrowser(entryURL)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("authorization not completed: %w", ctx.Err())
		case <-ticker.C:
			if _, err := tok.OAuthToken(); err == nil {
				return nil
			}
		}
	}
}

func openBrowser(url string) {
	url = fmt.Sprintf("%s?redirect=1", url)
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}

	if err != nil {
		log.Printf("Could not open browser automatically: %v; please copy and open link in the browser: %s\n", err, url)
	}
}
