package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/avasilev/inboxzero/internal/auth"
	"github.com/avasilev/inboxzero/internal/tool"
)

func newServeCmd() *cobra.Command {
	var (
		opts        appOptions
		httpAddr    string
		enableStdio bool
		logFile     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the triage tools over MCP",
		Long: `Expose inbox listing, one-shot triage, and the four action tools to MCP
clients over streamable HTTP and optionally stdio. The OAuth callback is
served on the same listener under /oauth.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			persistLogs := setupLogger(enableStdio, logFile)
			defer persistLogs()

			ln, err := listen(httpAddr)
			if err != nil {
				return err
			}

			a, err := buildApp(ln.Addr().String(), opts)
			if err != nil {
				return err
			}
			defer persistToken(a.tok)

			mcpSrv := tool.NewServer(a.gmail, a.orch, a.toolbox)

			mux := http.NewServeMux()
			mux.Handle("/oauth", auth.NewHTTPHandler(a.tok))
			mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server { return mcpSrv }, nil))

			srv := &http.Server{Handler: mux}

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, syscall.SIGTERM, syscall.SIGINT)

			if _, err := a.tok.OAuthToken(); errors.Is(err, auth.ErrTokenNotSet) {
				openBrowser(a.cfg.RedirectURL)
			}

			stopHTTP, errHTTPCh := serveHTTP(srv, ln)
			defer stopHTTP()

			var errStdioCh <-chan error
			if enableStdio {
				var stopStdio func()
				stopStdio, errStdioCh = serveStdio(mcpSrv)
				defer stopStdio()
			}

			select {
			case err := <-errHTTPCh:
				log.Println("Error http server", err)
			case err := <-errStdioCh:
				log.Println("Error stdio", err)
			case <-shutdown:
				log.Println("Shutdown signal received")
			}

			return nil
		},
	}

	opts.register(cmd.Flags())
	cmd.Flags().StringVar(&httpAddr, "http-addr", "localhost:8311", "HTTP server listen addr")
	cmd.Flags().BoolVar(&enableStdio, "stdio", false, "Enable stdio transport for MCP (disables stdout logging)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Path to log file (only used with stdio transport, otherwise logs to stdout)")

	return cmd
}

func serveStdio(srv *mcp.Server) (func(), <-chan error) {
	errStdioCh := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer close(errStdioCh)
		log.Println("Starting stdio transport")

		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			errStdioCh <- fmt.Errorf("srv.Run failed: %w", err)
		}
	}()

	return func() {
		cancel()

		<-errStdioCh
		log.Println("Stdio transport stopped")
	}, errStdioCh
}

func serveHTTP(srv *http.Server, ln net.Listener) (func(), <-chan error) {
	errHTTPCh := make(chan error, 1)
	go func() {
		defer close(errHTTPCh)

		log.Println("Starting http server on", ln.Addr().String())

		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("srv.Serve failed: %w", err)
			log.Println(err)
			errHTTPCh <- err
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Println(fmt.Errorf("srv.Shutdown failed: %w", err))
		}

		<-errHTTPCh
		log.Println("HTTP server stopped")
	}, errHTTPCh
}

func setupLogger(enableStdio bool, logFile string) func() {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Println(fmt.Errorf("failed to open log file: %w", err))
			return func() {}
		}
		log.SetOutput(f)

		return func() {
			if err := f.Close(); err != nil {
				log.Println(fmt.Errorf("f.Close failed: %w", err))
			}
		}
	}

	if enableStdio {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stdout)
	}

	return func() {}
}
