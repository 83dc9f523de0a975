package cmd

import (
	"fmt"

	"quiz-manager/core/domain"
	"quiz-manager/core/tokens"
	authFeature "quiz-manager/feature/auth"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	authUsername string
	authPassword string
)

// authCmd is the parent command for the backend session.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the quiz backend session",
	Long: `Log in to the quiz backend and inspect the stored session.

Sessions outlive a single command only with TOKENS_BACKEND=redis; the memory
backend forgets them when the command exits.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the quiz backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		creds := domain.Credentials{Username: authUsername, Password: authPassword}
		if creds.Username == "" {
			creds.Username = d.cfg.API.Username
		}
		if creds.Password == "" {
			creds.Password = d.cfg.API.Password
		}
		if d.cfg.Tokens.Backend != tokens.BackendRedis {
			d.logger.Warn("Token backend is memory, the session ends with this command")
		}

		sess, err := authFeature.NewService(d.client, d.logger).Login(cmd.Context(), creds)
		if err != nil {
			return err
		}
		return render(sess, func() { printSession(sess) })
	},
}

var authWhoAmICmd = &cobra.Command{
	Use:   "whoami",
	Short: "Describe the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		sess, err := authFeature.NewService(d.client, d.logger).WhoAmI(cmd.Context())
		if err != nil {
			return err
		}
		return render(sess, func() { printSession(sess) })
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		if err := authFeature.NewService(d.client, d.logger).Logout(cmd.Context()); err != nil {
			return err
		}
		d.logger.Info("Logged out", zap.String("backend", d.cfg.API.BaseURL))
		return nil
	},
}

func init() {
	authLoginCmd.Flags().StringVarP(&authUsername, "username", "u", "", "Username (default from API_USERNAME)")
	authLoginCmd.Flags().StringVarP(&authPassword, "password", "p", "", "Password (default from API_PASSWORD)")

	authCmd.AddCommand(authLoginCmd, authWhoAmICmd, authLogoutCmd)
	RootCmd.AddCommand(authCmd)
}

func printSession(sess *authFeature.Session) {
	fmt.Println("\n--- Session ---")
	fmt.Printf("Authenticated: %v\n", sess.Authenticated)
	if sess.Claims == nil {
		return
	}
	fmt.Printf("Subject:       %s\n", sess.Claims.Subject)
	if sess.Claims.Username != "" {
		fmt.Printf("Username:      %s\n", sess.Claims.Username)
	}
	if !sess.Claims.ExpiresAt.IsZero() {
		fmt.Printf("Expires:       %s\n", sess.Claims.ExpiresAt.Format("2006-01-02 15:04:05"))
	}
	if sess.Expired {
		fmt.Println("\033[33mAccess token expired; it is refreshed on the next request.\033[0m")
	}
}
