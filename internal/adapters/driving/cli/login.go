package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/paritel/osm-search/internal/adapters/driven/config/file"
	"github.com/paritel/osm-search/internal/adapters/driven/store/rest"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the backend",
	Long: `Authenticate against the backend with email and password.

The obtained access token is stored in the configuration file and
used by subsequent commands. Row-level access rules of the backend
apply to logged-in searches.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email (prompted if omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	baseURL := configStore.GetString(file.KeyBackendURL)
	apiKey := configStore.GetString(file.KeyBackendAPIKey)
	if baseURL == "" || apiKey == "" {
		return errors.New("backend not configured: set backend.url and backend.api_key first")
	}

	email := loginEmail
	if email == "" {
		email = configStore.GetString(file.KeyBackendEmail)
	}
	reader := bufio.NewReader(os.Stdin)
	if email == "" {
		cmd.Print("Email: ")
		email = readLine(reader)
	}
	if email == "" {
		return errors.New("email is required")
	}

	cmd.Print("Password: ")
	password := readPassword()
	cmd.Println()
	if password == "" {
		return errors.New("password is required")
	}

	source := rest.NewPasswordTokenSource(baseURL, apiKey, rest.Credentials{
		Email:    email,
		Password: password,
	}, nil)

	token, err := source.Token()
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := configStore.Set(file.KeyBackendEmail, email); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	if err := configStore.Set(file.KeyAccessToken, token.AccessToken); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	cmd.Printf("Logged in as %s.\n", email)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if configStore.GetString(file.KeyAccessToken) == "" {
		cmd.Println("Not logged in.")
		return nil
	}

	if err := configStore.Set(file.KeyAccessToken, ""); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	cmd.Println("Logged out.")
	return nil
}

// Input helpers.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Read without echo when attached to a terminal
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if password, err := term.ReadPassword(int(os.Stdin.Fd())); err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
