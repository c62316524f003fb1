package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

func cmdLogin() *Command {
	flags := flag.NewFlagSet("login", flag.ContinueOnError)
	email := flags.String("email", "", "account email (prompted when omitted)")
	password := flags.String("password", "", "account password (prompted when omitted)")
	return &Command{
		Usage: "login [--email addr]",
		Short: "sign in and persist the session token",
		Flags: flags,
		Exec: func(a *App, out io.Writer, _ []string) error {
			addr, pass, err := credentials(*email, *password)
			if err != nil {
				return err
			}
			if !a.session.Login(addr, pass) {
				return errors.New(a.session.Err())
			}
			actor, _ := a.session.Actor()
			fmt.Fprintf(out, "Signed in as %s (%s)\n", actor.Email, actor.Role)
			return nil
		},
	}
}

// credentials fills missing login fields interactively. The password
// prompt does not echo.
func credentials(email, password string) (string, string, error) {
	if email != "" && password != "" {
		return email, password, nil
	}
	line := liner.NewLiner()
	defer line.Close()
	var err error
	if email == "" {
		email, err = line.Prompt("Email: ")
		if err != nil {
			return "", "", fmt.Errorf("read email: %w", err)
		}
	}
	if password == "" {
		password, err = line.PasswordPrompt("Password: ")
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return "", "", errors.New("email is required")
	}
	if password == "" {
		return "", "", errors.New("password is required")
	}
	return email, password, nil
}

func cmdLogout() *Command {
	return &Command{
		Usage: "logout",
		Short: "clear the session and the persisted token",
		Exec: func(a *App, out io.Writer, _ []string) error {
			a.session.Logout()
			fmt.Fprintln(out, "Signed out")
			return nil
		},
	}
}

func cmdWhoami() *Command {
	return &Command{
		Usage: "whoami",
		Short: "show the confirmed session identity",
		Exec: func(a *App, out io.Writer, _ []string) error {
			actor, ok := a.session.Actor()
			if !ok {
				return errors.New("you are not signed in (run: shopctl login)")
			}
			fmt.Fprintf(out, "%s (%s), id %s\n", actor.Email, actor.Role, actor.UserID)
			if exp, known := a.session.TokenExpiry(); known {
				fmt.Fprintf(out, "token expires %s\n", exp.Format("2006-01-02 15:04:05 MST"))
			}
			return nil
		},
	}
}
