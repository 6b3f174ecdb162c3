// Package tmdb provides a client for The Movie Database (TMDB) v3 API.
//
// It covers the user session handshake, movie search, the account's
// favorite and watchlist lists, and marking movies on those lists.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Transport: issues requests, attaches the API key, maps failures to errors
//   - Session: the request token, session id and account id of the current user
//   - Authenticator: the four step handshake that fills the Session
//   - Client: typed operations built on Transport and Session
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := tmdb.NewClient("your-api-key", logger,
//		tmdb.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	authorizer := tmdb.AuthorizerFunc(func(ctx context.Context, token string) error {
//		fmt.Println("Approve access at", client.AuthorizationURL(token))
//		return waitForUser(ctx)
//	})
//	if err := client.Authenticate(ctx, authorizer); err != nil {
//		log.Fatal(err) // e.g. "Login Failed (Session ID)."
//	}
//
//	favorites, err := client.Favorites(ctx)
//
// # Error Handling
//
// Transport failures are reported as ErrNetwork, *StatusError, ErrEmptyBody
// or ErrDecode and reach the caller of a resource operation unchanged.
// Responses missing a required field produce *ParseError. Operations that
// need a session return ErrNotAuthenticated without sending a request.
// Authentication failures are *AuthError values whose message is the
// failing step's reason:
//
//	var authErr *tmdb.AuthError
//	if errors.As(err, &authErr) && authErr.Step == tmdb.StateSessionCreated {
//		// the token was approved but no session was issued
//	}
package tmdb
