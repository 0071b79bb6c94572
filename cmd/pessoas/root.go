package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/apiclient"
	"github.com/prefeitura-rio/app-pessoas/internal/config"
	"github.com/prefeitura-rio/app-pessoas/internal/logging"
	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNotLoggedIn = errors.New("not logged in: run 'pessoas login' first")

// app carries what every subcommand needs once flags are parsed
type app struct {
	apiURL      string
	sessionFile string
	verbose     bool

	cfg      *config.Config
	logger   *logging.SafeLogger
	store    *session.FileStore
	api      *apiclient.Client
	sessions *session.Manager
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pessoas",
		Short: "Manage the person registry from the terminal",
		Long: `pessoas talks to the people backend with the session opened by 'pessoas login'.

Writes go through the same validation as the web panel: an invalid CPF or a
missing required field is reported before anything is sent.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "people backend base URL (default $API_BASE_URL)")
	root.PersistentFlags().StringVar(&a.sessionFile, "session-file", "", "session file (default ~/.config/pessoas/session.json)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log backend calls to stderr")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newCPFCmd(),
		newSuggestCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIBaseURL = strings.TrimRight(a.apiURL, "/")
	}
	a.cfg = cfg

	a.logger = logging.Logger
	if a.verbose {
		if err := logging.InitLogger(); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.logger = logging.Logger
	}

	path := a.sessionFile
	if path == "" {
		if path, err = session.DefaultFilePath(); err != nil {
			return err
		}
	}
	a.store = session.NewFileStore(path)
	a.api = apiclient.NewClient(cfg, a.logger)
	a.sessions = session.NewManager(a.store, a.api, cfg.SessionTTL, a.logger)

	// The backend rejected the token: forget the local session
	a.api.OnUnauthorized(func(ctx context.Context, _ *models.APIError) {
		if s, ok := session.FromContext(ctx); ok && a.sessions.Invalidate(ctx, s.ID) {
			a.logger.Info("local session removed", zap.String("session_id", s.ID))
		}
	})
	return nil
}

// authed returns ctx carrying the stored session and its backend token
func (a *app) authed(ctx context.Context) (context.Context, error) {
	current, err := a.store.Current()
	if errors.Is(err, models.ErrSessionNotFound) {
		return nil, errNotLoggedIn
	}
	if err != nil {
		return nil, err
	}

	s, err := a.sessions.Get(ctx, current.ID)
	if errors.Is(err, models.ErrSessionExpired) {
		return nil, fmt.Errorf("%s: run 'pessoas login' again", models.UserMessageFor(&models.APIError{ErrorType: models.ErrTypeUnauthorized}))
	}
	if err != nil {
		return nil, err
	}

	ctx = session.WithSession(ctx, s)
	return apiclient.WithToken(ctx, s.Token), nil
}

// commandContext bounds one command by the backend timeout plus retries
func (a *app) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := a.cfg.APITimeout * time.Duration(a.cfg.APIMaxRetries+1)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(cmd.Context(), timeout+5*time.Second)
}

// describeError turns backend failures into the messages the panel shows
func describeError(err error) error {
	if err == nil {
		return nil
	}
	if models.IsKind(err, models.KindUnauthorized) {
		return fmt.Errorf("%s: run 'pessoas login' again", models.UserMessageFor(err))
	}
	if apiErr, ok := models.AsAPIError(err); ok {
		return fmt.Errorf("%s (%d %s)", apiErr.UserMessage(), apiErr.StatusCode, apiErr.ErrorType)
	}
	return err
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
