package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/payshield/payshield-cli/internal/client/guard"
	"github.com/payshield/payshield-cli/internal/client/session"
	"github.com/payshield/payshield-cli/internal/client/validation"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts for the account fields, validates them locally and
// creates the account. It does not log the user in; login stays an
// explicit step.
func (a *App) Signup(ctx context.Context) error {
	if out := guard.Public(a.session); out.Decision == guard.Redirect {
		fmt.Fprintf(a.out, "Already logged in ('%s')\n", out.Target)
		return nil
	}

	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	if err := validation.Name(name); err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := validation.Email(email); err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}

	mobile, err := getSimpleText(a.reader, "Enter mobile number", a.out)
	if err != nil {
		return err
	}
	if err := validation.Mobile(mobile); err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	if err := validation.Password(string(password)); err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}

	id, err := a.session.Signup(ctx, name, email, mobile, string(password))
	if err != nil {
		fmt.Fprintf(a.out, "Signup failed: %s\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Account created (id %d). Please login.\n", id)
	return nil
}

// Login prompts for credentials and authenticates. A rejected login is
// reported without detail about which field was wrong; it is never
// retried automatically.
func (a *App) Login(ctx context.Context) error {
	if out := guard.Public(a.session); out.Decision == guard.Redirect {
		fmt.Fprintf(a.out, "Already logged in ('%s')\n", out.Target)
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := validation.Email(email); err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			fmt.Fprintln(a.out, session.ErrInvalidCredentials)
		} else {
			fmt.Fprintf(a.out, "Login failed: %s\n", err)
		}
		return err
	}

	a.pager.Reset()
	fmt.Fprintf(a.out, "Logged in as %s\n", a.session.CurrentUser().Name)
	return nil
}

// Logout clears the session. Local state is cleared even when the server
// cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	if !a.requireAuth() {
		return nil
	}
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.pager.Reset()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
