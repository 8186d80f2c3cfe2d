package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/2beens/portfolio/internal/adminclient"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultAPIURL = "http://localhost:5000"

type app struct {
	apiURL   string
	tokenDir string
	verbose  bool

	store  *adminclient.FileTokenStore
	client *adminclient.Client
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, adminclient.ErrLoginRequired) {
			fmt.Fprintln(os.Stderr, "not logged in or session expired, run: admin login")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	apiURL := os.Getenv("PORTFOLIO_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	rootCmd := &cobra.Command{
		Use:   "admin",
		Short: "Portfolio admin panel",
		Long: `Manage portfolio projects and contact messages.

Run "admin login" first; the session token is kept in the user config dir
and attached to every admin request until it expires or you log out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.apiURL, "api", apiURL, "portfolio API base URL (env PORTFOLIO_API_URL)")
	rootCmd.PersistentFlags().StringVar(&a.tokenDir, "token-dir", "", "directory of the admin_token file (default: user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.projectsCmd(),
		a.messagesCmd(),
		a.uploadCmd(),
		hashPasswordCmd(),
	)

	return rootCmd
}

func (a *app) setup() error {
	log.SetLevel(log.WarnLevel)
	if a.verbose {
		log.SetLevel(log.DebugLevel)
	}

	if a.tokenDir != "" {
		a.store = adminclient.NewFileTokenStore(a.tokenDir)
	} else {
		store, err := adminclient.DefaultTokenStore()
		if err != nil {
			return err
		}
		a.store = store
	}

	a.client = adminclient.NewClient(a.apiURL, a.store, nil)
	return nil
}

// swapped in tests
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

// readSecret takes the value from the flag, then the env var, then stdin.
// On a terminal the input is not echoed, piped input is read up to the first newline.
func readSecret(cmd *cobra.Command, flagValue, envVar, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(envVar); v != "" {
		return v, nil
	}

	name := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(prompt), ":"))
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	if f, ok := cmd.InOrStdin().(*os.File); ok && isTerminal(int(f.Fd())) {
		secret, err := readPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		return string(secret), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
