package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moviemanager/tmdb"
)

// terminalAuthorizer asks the user to approve the request token in a browser
// and waits for Enter. Entering anything else denies the token.
type terminalAuthorizer struct {
	in          io.Reader
	out         io.Writer
	interactive bool
	urlFor      func(requestToken string) string
}

func newTerminalAuthorizer(c *tmdb.Client) *terminalAuthorizer {
	return &terminalAuthorizer{
		in:          os.Stdin,
		out:         os.Stdout,
		interactive: isTerminal(os.Stdin),
		urlFor:      c.AuthorizationURL,
	}
}

// Authorize implements tmdb.Authorizer
func (a *terminalAuthorizer) Authorize(ctx context.Context, requestToken string) error {
	if !a.interactive {
		return errors.New("authorization requires an interactive terminal")
	}

	fmt.Fprintf(a.out, "\nApprove access to your TMDB account:\n  %s\n\n", a.urlFor(requestToken))
	fmt.Fprintf(a.out, "Press Enter once approved, or type 'n' to cancel: ")

	answer := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(a.in)
		if scanner.Scan() {
			answer <- scanner.Text()
		}
		close(answer)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case text, ok := <-answer:
		if !ok {
			return errors.New("no confirmation received")
		}
		if text != "" {
			return errors.New("authorization cancelled")
		}
		return nil
	}
}

// withSession signs in, runs fn, and deletes the session afterwards
func withSession(ctx context.Context, fn func(context.Context) error) error {
	if err := client.Authenticate(ctx, newTerminalAuthorizer(client)); err != nil {
		return err
	}
	defer func() {
		if err := client.Logout(context.WithoutCancel(ctx)); err != nil {
			logger.Warn().Err(err).Msg("Failed to delete TMDB session")
		}
	}()

	return fn(ctx)
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to TMDB and show the account id",
	Long: `Run the TMDB sign-in handshake: request a token, approve it in the
browser, create a session and look up the account. The session is deleted
again when the command exits.`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), func(ctx context.Context) error {
		creds := client.Credentials()
		fmt.Printf("✓ Signed in to TMDB (account %d)\n", creds.UserID)
		return nil
	})
}
