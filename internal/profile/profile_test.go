package profile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/chemmaster/chemmaster/internal/store"
)

func TestProfileLifecycle(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "p.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()
	ctx := context.Background()
	p := New(st.KV())

	name, err := p.Load(ctx)
	if err != nil || name != "" {
		t.Fatalf("fresh load = %q, %v", name, err)
	}

	if err := p.Save(ctx, "  Lan  "); err != nil {
		t.Fatalf("save: %v", err)
	}
	if name, _ := p.Load(ctx); name != "Lan" {
		t.Errorf("loaded %q, want Lan", name)
	}

	if err := p.Save(ctx, "   "); err == nil {
		t.Error("blank name should be rejected")
	}

	if err := p.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if name, _ := p.Load(ctx); name != "" {
		t.Errorf("after clear loaded %q", name)
	}
}
