package reference

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

var codeRe = regexp.MustCompile(`^MY[1-9]\d{5}$`)

func TestGenerateFormat(t *testing.T) {
	ref, err := Generate(context.Background(), func(ctx context.Context, ref string) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !codeRe.MatchString(ref) {
		t.Errorf("reference %q does not match MY + 6 digits", ref)
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	calls := 0
	ref, err := Generate(context.Background(), func(ctx context.Context, ref string) (bool, error) {
		calls++
		return calls <= 3, nil // first three candidates taken
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if calls != 4 {
		t.Errorf("expected 4 existence checks, got %d", calls)
	}
	if !codeRe.MatchString(ref) {
		t.Errorf("reference %q does not match format", ref)
	}
}

func TestGenerateExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Generate(context.Background(), func(ctx context.Context, ref string) (bool, error) {
		calls++
		return true, nil // everything taken
	})
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if calls != maxAttempts {
		t.Errorf("expected %d attempts, got %d", maxAttempts, calls)
	}
}

func TestGeneratePropagatesCheckError(t *testing.T) {
	boom := errors.New("db down")
	_, err := Generate(context.Background(), func(ctx context.Context, ref string) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected check error, got %v", err)
	}
}
