package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a session against the people backend",
		Long: `Log in with an admin account. The password is taken from --password,
then $PESSOAS_PASSWORD, then the first line of stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("PESSOAS_PASSWORD")
			}
			if password == "" {
				if stdinIsTerminal() {
					fmt.Fprint(cmd.ErrOrStderr(), "Senha: ")
				}
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New(models.MsgFillAllFields)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			ctx, cancel := a.commandContext(cmd)
			defer cancel()

			s, err := a.sessions.Login(ctx, models.LoginRequest{Email: email, Password: password})
			if errors.Is(err, models.ErrMissingCredentials) {
				return errors.New(models.MsgFillAllFields)
			}
			if err != nil {
				return errors.New(models.LoginErrorMessage(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", s.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "admin email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.store.Current()
			if errors.Is(err, models.ErrSessionNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			if err != nil {
				return err
			}
			if err := a.sessions.Logout(cmd.Context(), s.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
