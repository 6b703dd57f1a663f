// Package profile remembers the logged-in student between runs.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chemmaster/chemmaster/internal/store"
)

// Key is the KV key the user name is stored under.
const Key = "chem_user"

// Profile reads and writes the current user name.
type Profile struct {
	kv store.KV
}

// New creates a Profile backed by kv.
func New(kv store.KV) *Profile {
	return &Profile{kv: kv}
}

// Load returns the saved user name, or "" when nobody is logged in.
func (p *Profile) Load(ctx context.Context) (string, error) {
	name, err := p.kv.Get(ctx, Key)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load profile: %w", err)
	}
	return name, nil
}

// Save stores name as the current user.
func (p *Profile) Save(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name is required")
	}
	if err := p.kv.Set(ctx, Key, name); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Clear forgets the current user.
func (p *Profile) Clear(ctx context.Context) error {
	if err := p.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	return nil
}
