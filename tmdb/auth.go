package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultAuthorizationURL is where a request token is approved by the user
const DefaultAuthorizationURL = "https://www.themoviedb.org/authenticate/"

// Authorizer lets the user approve a request token, typically by visiting
// the authorization URL. A nil error means the token was approved; a non-nil
// error's message is reported as the failure reason.
type Authorizer interface {
	Authorize(ctx context.Context, requestToken string) error
}

// AuthorizerFunc adapts a function to the Authorizer interface
type AuthorizerFunc func(ctx context.Context, requestToken string) error

// Authorize calls f(ctx, requestToken)
func (f AuthorizerFunc) Authorize(ctx context.Context, requestToken string) error {
	return f(ctx, requestToken)
}

// Authenticator runs the four step session handshake:
// request token, user authorization, session creation, account lookup.
type Authenticator struct {
	transport Requester
	session   *Session
	logger    zerolog.Logger

	running atomic.Bool
	mu      sync.Mutex
	state   AuthState
}

// NewAuthenticator creates an authenticator that writes into session
func NewAuthenticator(transport Requester, session *Session, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		transport: transport,
		session:   session,
		logger:    logger,
		state:     StateStart,
	}
}

// State returns the state reached by the most recent flow
func (a *Authenticator) State() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// InProgress reports whether a flow or logout is currently running
func (a *Authenticator) InProgress() bool {
	return a.running.Load()
}

// acquire claims exclusive write access to the session. Every caller that
// gets true must call release.
func (a *Authenticator) acquire() bool {
	return a.running.CompareAndSwap(false, true)
}

func (a *Authenticator) release() {
	a.running.Store(false)
}

// Authenticate runs the handshake. It stops at the first failing step and
// returns an *AuthError carrying that step's reason. A call made while
// another flow or a logout is running returns ErrAlreadyInProgress without
// touching the session.
//
// The previous session is kept until a new request token has been
// obtained. A failure at step 1 leaves the session unmodified; a later
// failure leaves only the new request token behind.
func (a *Authenticator) Authenticate(ctx context.Context, authorizer Authorizer) error {
	if authorizer == nil {
		return fmt.Errorf("%w: authorizer is required", ErrInvalidConfig)
	}
	if !a.acquire() {
		return ErrAlreadyInProgress
	}
	defer a.release()

	logger := a.logger.With().Str("flow_id", uuid.NewString()).Logger()
	logger.Debug().Msg("Starting TMDB authentication")

	a.setState(StateStart)

	// Step 1: request token
	token, err := a.requestNewToken(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return a.fail(logger, StateTokenObtained, ReasonRequestToken, err)
	}
	a.session.begin(token)
	a.setState(StateTokenObtained)

	// Step 2: external authorization
	if err := authorizer.Authorize(ctx, token); err != nil {
		reason := ReasonAuthorization
		if msg := strings.TrimSpace(err.Error()); msg != "" && ctx.Err() == nil {
			reason = msg
		}
		return a.fail(logger, StateTokenValidated, reason, err)
	}
	if err := ctx.Err(); err != nil {
		return a.fail(logger, StateTokenValidated, ReasonAuthorization, err)
	}
	a.setState(StateTokenValidated)

	// Step 3: session
	sessionID, err := a.createSession(ctx, token)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return a.fail(logger, StateSessionCreated, ReasonSessionID, err)
	}
	a.session.setSessionID(sessionID)
	a.setState(StateSessionCreated)

	// Step 4: account id
	userID, err := a.fetchUserID(ctx, sessionID)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return a.fail(logger, StateAuthenticated, ReasonUserID, err)
	}
	a.session.setUserID(userID)
	a.setState(StateAuthenticated)

	logger.Info().Int64("user_id", userID).Msg("Authenticated with TMDB")
	return nil
}

func (a *Authenticator) requestNewToken(ctx context.Context) (string, error) {
	body, err := a.transport.Do(ctx, Request{Method: http.MethodGet, Path: pathTokenNew})
	if err != nil {
		return "", err
	}
	return stringField(body, "request token", fieldRequestToken)
}

func (a *Authenticator) createSession(ctx context.Context, token string) (string, error) {
	body, err := a.transport.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   pathSessionNew,
		Query:  map[string]string{paramRequestToken: token},
	})
	if err != nil {
		return "", err
	}
	return stringField(body, "session", fieldSessionID)
}

func (a *Authenticator) fetchUserID(ctx context.Context, sessionID string) (int64, error) {
	body, err := a.transport.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   pathAccount,
		Query:  map[string]string{paramSessionID: sessionID},
	})
	if err != nil {
		return 0, err
	}
	return intField(body, "account", fieldUserID)
}

func (a *Authenticator) fail(logger zerolog.Logger, step AuthState, reason string, err error) error {
	a.setState(StateFailed)
	logger.Warn().Err(err).Str("step", step.String()).Msg(reason)
	return &AuthError{Step: step, Reason: reason, Err: err}
}

func (a *Authenticator) setState(s AuthState) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

// AuthorizationURL returns the page where the user approves requestToken
func AuthorizationURL(base, requestToken string) string {
	if base == "" {
		base = DefaultAuthorizationURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + requestToken
}
