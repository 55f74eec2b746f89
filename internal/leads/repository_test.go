package leads

import (
	"context"
	"errors"
	"testing"

	"github.com/neighborhoodkrew/krew-leads-platform/internal/kv"
	"github.com/neighborhoodkrew/krew-leads-platform/pkg/logging"
)

func TestKVRepositoryAppendAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepository(kv.NewMemoryStore())

	for _, name := range []string{"first", "second", "third"} {
		form := DefaultForm()
		form.Name = name
		if err := repo.Append(ctx, &Lead{ID: name, QuoteForm: form}); err != nil {
			t.Fatalf("Append(%s) failed: %v", name, err)
		}
	}

	leads, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(leads) != 3 {
		t.Fatalf("expected 3 leads, got %d", len(leads))
	}
	if leads[0].Name != "first" || leads[2].Name != "third" {
		t.Errorf("leads out of insertion order: %v", leads)
	}
}

func TestKVRepositoryListEmpty(t *testing.T) {
	repo := NewKVRepository(kv.NewMemoryStore())

	leads, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(leads) != 0 {
		t.Errorf("expected no leads, got %d", len(leads))
	}
}

type failingRepo struct{ err error }

func (f *failingRepo) Append(ctx context.Context, lead *Lead) error { return f.err }
func (f *failingRepo) List(ctx context.Context) ([]Lead, error)    { return nil, f.err }

func TestTeeRepositoryArchiveFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	primary := NewKVRepository(kv.NewMemoryStore())
	archive := &failingRepo{err: errors.New("db down")}
	repo := NewTeeRepository(primary, archive, logging.Default())

	if err := repo.Append(ctx, &Lead{ID: "l1", QuoteForm: DefaultForm()}); err != nil {
		t.Fatalf("Append should swallow archive errors, got %v", err)
	}

	leads, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(leads) != 1 {
		t.Errorf("expected lead in primary, got %d", len(leads))
	}
}

func TestTeeRepositoryPrimaryFailureIsFatal(t *testing.T) {
	primary := &failingRepo{err: errors.New("store down")}
	repo := NewTeeRepository(primary, nil, nil)

	if err := repo.Append(context.Background(), &Lead{ID: "l1"}); err == nil {
		t.Fatal("expected primary failure to surface")
	}
}
