package pool

import (
	"errors"
	"gridtactics/internal/domain"
	"testing"
	"time"
)

func TestEffectPool_ExpireOrder(t *testing.T) {
	p := NewEffectPool(8)

	h1, _ := p.Acquire("slash", domain.Position{X: 1}, 0, 300*time.Millisecond)
	h2, _ := p.Acquire("slash", domain.Position{X: 2}, 0, 100*time.Millisecond)
	h3, _ := p.Acquire("burn", domain.Position{X: 3}, 50*time.Millisecond, 50*time.Millisecond)

	if got := p.InUse("slash"); got != 2 {
		t.Fatalf("InUse(slash) = %d, want 2", got)
	}

	released := p.Expire(100 * time.Millisecond)
	// h3 истекает в 100ms, h2 тоже в 100ms, но h2 взят раньше
	if len(released) != 2 || released[0] != h2 || released[1] != h3 {
		t.Fatalf("Expire(100ms) = %v, want [h2 h3]", released)
	}
	if h2.Live() || h3.Live() || !h1.Live() {
		t.Error("wrong liveness after expire")
	}

	if got := p.Expire(299 * time.Millisecond); len(got) != 0 {
		t.Errorf("nothing should expire before 300ms, got %d", len(got))
	}
	if got := p.Expire(time.Second); len(got) != 1 || got[0] != h1 {
		t.Errorf("Expire(1s) = %v, want [h1]", got)
	}
	if len(p.Active()) != 0 {
		t.Error("pool should be empty")
	}
}

func TestEffectPool_CapacityAndReuse(t *testing.T) {
	p := NewEffectPool(2)

	a, _ := p.Acquire("hit", domain.Position{}, 0, 0)
	if _, err := p.Acquire("hit", domain.Position{}, 0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Acquire("hit", domain.Position{}, 0, 0); !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("third acquire: err = %v, want ErrPoolExhausted", err)
	}
	// Другой ключ - своя квота
	if _, err := p.Acquire("other", domain.Position{}, 0, 0); err != nil {
		t.Errorf("other key: %v", err)
	}

	p.Release(a)
	p.Release(a) // повторный возврат игнорируется
	if p.InUse("hit") != 1 || p.Idle("hit") != 1 {
		t.Fatalf("InUse=%d Idle=%d, want 1/1", p.InUse("hit"), p.Idle("hit"))
	}

	b, err := p.Acquire("hit", domain.Position{X: 9}, time.Second, 0)
	if err != nil {
		t.Fatal(err)
	}
	if b != a {
		t.Error("released handle should be reused")
	}
	if b.At != (domain.Position{X: 9}) || b.SpawnedAt != time.Second {
		t.Errorf("reused handle not reset: %+v", b)
	}
}

func TestEffectPool_ReleaseRemovesTimer(t *testing.T) {
	p := NewEffectPool(4)
	h, _ := p.Acquire("hit", domain.Position{}, 0, time.Second)
	p.Release(h)

	if got := p.Expire(2 * time.Second); len(got) != 0 {
		t.Errorf("released handle expired again: %v", got)
	}
	if p.InUse("hit") != 0 {
		t.Errorf("InUse = %d, want 0", p.InUse("hit"))
	}
}

func TestEffectPool_Extend(t *testing.T) {
	p := NewEffectPool(4)
	h, _ := p.Acquire("aura", domain.Position{}, 0, 100*time.Millisecond)
	p.Extend(h, 500*time.Millisecond)

	if got := p.Expire(200 * time.Millisecond); len(got) != 0 {
		t.Error("extended handle expired early")
	}
	if got := p.Expire(500 * time.Millisecond); len(got) != 1 {
		t.Error("extended handle did not expire")
	}
}
