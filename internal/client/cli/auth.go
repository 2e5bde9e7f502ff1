package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/client/session"
	"github.com/dmitrijs2005/cloudsphere/internal/client/upload"
)

func (a *App) Login(ctx context.Context) error {
	prefill, err := a.prefs.PrefillEmail(ctx)
	if err != nil {
		a.logger.Warn(ctx, "read remembered email failed", "error", err)
	}
	remembered, _ := a.prefs.RememberMe(ctx)

	email, err := GetTextWithDefault(a.reader, "Email", prefill, a.out)
	if err != nil {
		return err
	}
	remember, err := GetYesNo(a.reader, "Remember me?", remembered, a.out)
	if err != nil {
		return err
	}

	sess, err := a.manager.Login(ctx, email, remember)
	if err != nil {
		if errors.Is(err, backend.ErrNotRegistered) {
			return fmt.Errorf("%w; use 'signup' to create an account", err)
		}
		return err
	}
	a.welcome(ctx, sess)
	return nil
}

func (a *App) SignUp(ctx context.Context) error {
	prefill, _ := a.prefs.RememberedEmail(ctx)
	email, err := GetTextWithDefault(a.reader, "Email for the new account", prefill, a.out)
	if err != nil {
		return err
	}

	sess, err := a.manager.SignUp(ctx, email)
	if err != nil {
		return err
	}
	a.welcome(ctx, sess)
	return nil
}

func (a *App) welcome(ctx context.Context, sess *session.Session) {
	role, _ := sess.Roles.Cached()
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", sess.Principal(), role)

	p, err := a.files.Profile(ctx)
	if err == nil && p != nil && a.limits.StorageFull(p) {
		fmt.Fprintln(a.out, "Your storage is full; delete files to upload more.")
	}
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.manager.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	sess, err := a.manager.Session()
	if err != nil {
		return err
	}
	p, err := a.files.Profile(ctx)
	if err != nil {
		return err
	}
	if p == nil {
		return backend.ErrNotRegistered
	}

	limit := a.limits.StorageLimit(p)
	fmt.Fprintf(a.out, "Principal: %s\n", sess.Principal())
	fmt.Fprintf(a.out, "Email:     %s\n", p.Email)
	fmt.Fprintf(a.out, "Role:      %s\n", p.Role)
	fmt.Fprintf(a.out, "Storage:   %s of %s used, %s remaining\n",
		upload.FormatBytes(p.UsedStorageBytes), upload.FormatBytes(limit), upload.FormatBytes(a.limits.Remaining(p)))
	if n, err := a.files.UploadCount(ctx); err == nil {
		fmt.Fprintf(a.out, "Uploads:   %d\n", n)
	}
	if p.IsBlocked {
		fmt.Fprintln(a.out, "Status:    blocked")
	}
	return nil
}
