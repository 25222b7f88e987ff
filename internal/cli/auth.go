package cli

import (
	"context"
	"time"

	"github.com/housersapp/housers/internal/common"
)

// Indirections so tests can feed input without a terminal.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	now           = time.Now
)

// Login prompts for credentials, signs in and refreshes the home data.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}

	uid, err := a.session.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	printlnFn("Login successful")
	a.refresh(ctx, uid)
	return nil
}

// Logout forgets the session and everything held for the user.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.SignOut(ctx); err != nil {
		return err
	}
	a.engine.Reset()
	if a.importer != nil {
		a.importer.Reset()
	}
	a.me = nil
	a.badge.Refresh()
	printlnFn("Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	uid, err := a.session.CurrentUserID()
	if err != nil {
		return err
	}
	p, err := a.backend.ProfileByID(ctx, uid)
	if err != nil {
		return err
	}
	a.me = p
	printlnFn(profileCard(*p, a.avatars.Resolve(ctx, *p)))
	return nil
}

// ResetPassword sets a new password when signed in, otherwise it asks the
// backend to email a reset link.
func (a *App) ResetPassword(ctx context.Context) error {
	if !a.isLoggedIn() {
		email, err := getSimpleText(a.reader, "Enter the email of your account", a.out)
		if err != nil {
			return err
		}
		if err := a.account.RequestPasswordReset(ctx, email); err != nil {
			return err
		}
		printlnFn("If the account exists, a reset link is on its way.")
		return nil
	}

	password, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	confirmation, err := getPassword("Repeat new password", a.out)
	if err != nil {
		return err
	}
	if err := a.account.ResetPassword(ctx, password, confirmation); err != nil {
		return err
	}
	printlnFn("Password updated")
	return nil
}

func (a *App) AcceptTerms(ctx context.Context) error {
	uid, err := a.session.CurrentUserID()
	if err != nil {
		return err
	}
	if err := a.account.AcceptTerms(ctx, uid); err != nil {
		return err
	}
	printlnFn("Terms accepted")
	return nil
}

func (a *App) currentUser() (string, error) {
	uid, err := a.session.CurrentUserID()
	if err != nil {
		return "", common.ErrNoSession
	}
	return uid, nil
}
