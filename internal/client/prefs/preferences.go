package prefs

import "context"

const rememberMeOn = "true"

// Preferences exposes the login-form values on top of a Store.
type Preferences struct {
	store Store
}

func NewPreferences(store Store) *Preferences {
	return &Preferences{store: store}
}

// PrefillEmail returns the remembered email only when remember-me is on and
// an email was saved.
func (p *Preferences) PrefillEmail(ctx context.Context) (string, error) {
	on, err := p.RememberMe(ctx)
	if err != nil || !on {
		return "", err
	}
	return p.RememberedEmail(ctx)
}

// RememberedEmail returns the last saved email regardless of remember-me.
func (p *Preferences) RememberedEmail(ctx context.Context) (string, error) {
	v, _, err := p.store.Get(ctx, KeyRememberedEmail)
	return v, err
}

func (p *Preferences) RememberMe(ctx context.Context) (bool, error) {
	v, ok, err := p.store.Get(ctx, KeyRememberMe)
	if err != nil {
		return false, err
	}
	return ok && v == rememberMeOn, nil
}

func (p *Preferences) SaveEmail(ctx context.Context, email string) error {
	return p.store.Set(ctx, KeyRememberedEmail, email)
}

// SetRememberMe persists the flag. Turning it off removes the key.
func (p *Preferences) SetRememberMe(ctx context.Context, on bool) error {
	if !on {
		return p.store.Remove(ctx, KeyRememberMe)
	}
	return p.store.Set(ctx, KeyRememberMe, rememberMeOn)
}

// SaveLogin records the email used for a login together with the
// remember-me choice.
func (p *Preferences) SaveLogin(ctx context.Context, email string, remember bool) error {
	if err := p.SaveEmail(ctx, email); err != nil {
		return err
	}
	return p.SetRememberMe(ctx, remember)
}
