package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/hongminglow/lifelink/internal/api"
	"github.com/hongminglow/lifelink/internal/config"
	"github.com/hongminglow/lifelink/internal/dashboard"
	"github.com/hongminglow/lifelink/internal/forms"
	"github.com/hongminglow/lifelink/internal/noise"
	"github.com/hongminglow/lifelink/internal/profile"
	"github.com/hongminglow/lifelink/internal/router"
	"github.com/hongminglow/lifelink/internal/session"
	"github.com/hongminglow/lifelink/internal/storage/boltdb"
)

// navigator remembers the last navigation so it can be rendered once the
// current command has finished.
type navigator struct {
	pending string
}

func (n *navigator) Navigate(path string) { n.pending = path }

func (n *navigator) take() (string, bool) {
	path := n.pending
	n.pending = ""
	return path, path != ""
}

type app struct {
	out      io.Writer
	logger   *zap.Logger
	state    *boltdb.Store
	client   *api.Client
	session  *session.Store
	nav      *navigator
	guard    *router.Guard
	filter   *noise.Filter
	profile  *profile.Sync
	donor    *dashboard.DonorBoard
	receiver *dashboard.ReceiverBoard
	admin    *dashboard.AdminBoard
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger, out io.Writer) (*app, error) {
	state, err := boltdb.Open(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}

	client := api.New(cfg.APIBaseURL, logger, api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
	nav := &navigator{}
	sess := session.New(state, client, nav, logger)
	client.UseSession(sess)
	if err := sess.Initialize(ctx); err != nil {
		_ = state.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	filter := noise.NewFilter(cfg.NoisyErrors)
	return &app{
		out:      out,
		logger:   logger,
		state:    state,
		client:   client,
		session:  sess,
		nav:      nav,
		guard:    router.NewGuard(sess),
		filter:   filter,
		profile:  profile.NewSync(client, state, sess, filter, logger),
		donor:    dashboard.NewDonorBoard(client, logger),
		receiver: dashboard.NewReceiverBoard(client, filter, logger),
		admin:    dashboard.NewAdminBoard(client, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.state.Close(); err != nil {
		a.logger.Warn("close state", zap.Error(err))
	}
}

// enter runs the guard for path. When the view is not allowed the redirect
// target is rendered instead and errRedirected is returned.
func (a *app) enter(ctx context.Context, path string) error {
	d := a.guard.Evaluate(path)
	if d.Allowed() {
		return nil
	}
	a.logger.Debug("navigation redirected",
		zap.String("path", path),
		zap.String("redirect", d.Redirect),
		zap.Stringer("state", d.State))
	if d.From != "" {
		fmt.Fprintf(a.out, "Please log in to continue to %s.\n\n", d.From)
	}
	render := a.render
	if d.State == router.AuthenticatedAuthorized && d.Redirect != router.NotFound {
		// Aliases point at role-gated views, which get their own check.
		render = a.open
	}
	if err := render(ctx, d.Redirect); err != nil {
		return err
	}
	return errRedirected
}

var errRedirected = userError("This action needs a login or a different account.")

// open navigates to path the way following a link would.
func (a *app) open(ctx context.Context, path string) error {
	err := a.enter(ctx, path)
	if errors.Is(err, errRedirected) {
		return nil
	}
	if err != nil {
		return err
	}
	return a.render(ctx, path)
}

// show opens path as a command's main view. A view that fails because the
// session ended is replaced by the login view.
func (a *app) show(ctx context.Context, path string) error {
	if err := a.open(ctx, path); err != nil {
		return a.fail(ctx, err, "Something went wrong while loading this page.")
	}
	return nil
}

// follow renders the view the session navigated to during the command, if
// any. A 401 anywhere lands here on /login.
func (a *app) follow(ctx context.Context) error {
	path, ok := a.nav.take()
	if !ok {
		return nil
	}
	fmt.Fprintln(a.out)
	return a.open(ctx, path)
}

// describe turns err into the text shown to the user.
func (a *app) describe(err error, fallback string) string {
	var fe *forms.Error
	switch {
	case errors.As(err, &fe):
		return fe.Message
	case errors.Is(err, session.ErrInsufficientRole):
		return "You do not have administrator privileges"
	case errors.Is(err, session.ErrNotAuthenticated):
		return "You must be logged in to continue"
	case errors.Is(err, context.Canceled):
		return "Canceled."
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		a.logger.Error("command failed", zap.Error(err))
	}
	return a.filter.Message(err, fallback)
}

// fail reports err, renders any view the failure navigated to and returns
// the user-facing error.
func (a *app) fail(ctx context.Context, err error, fallback string) error {
	msg := a.describe(err, fallback)
	if ferr := a.follow(ctx); ferr != nil {
		a.logger.Warn("render after failure", zap.Error(ferr))
	}
	return userError(msg)
}

// userError is printed to the terminal as is.
type userError string

func (e userError) Error() string { return string(e) }
