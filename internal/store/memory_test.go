package store

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/robalobadob/herding/internal/game"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g := game.New(game.Options{Rand: rand.New(rand.NewSource(1))})
	sess := &Session{Game: g, OwnerID: "anon"}

	if err := st.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Get(ctx, g.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != sess {
		t.Error("Get returned a different session")
	}

	if err := st.Delete(ctx, g.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Get(ctx, g.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestSaveRejectsEmptySession(t *testing.T) {
	if err := NewMemoryStore().Save(context.Background(), &Session{}); err == nil {
		t.Fatal("expected error for session without game")
	}
}

func TestSessionDoSerialises(t *testing.T) {
	g := game.New(game.Options{Rand: rand.New(rand.NewSource(1))})
	sess := &Session{Game: g}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sess.Do(func(g *game.Game) error {
				if _, err := g.AddPivot(game.ActionTurnLeft); err != nil {
					return err
				}
				_, err := g.ClearSequence()
				return err
			})
		}()
	}
	wg.Wait()

	if n := len(g.Snapshot().Sequence); n != 0 {
		t.Errorf("sequence length = %d after balanced add/clear", n)
	}
}

func TestSweepDropsIdleSessions(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	idle := &Session{Game: game.New(game.Options{Rand: rand.New(rand.NewSource(1))})}
	busy := &Session{Game: game.New(game.Options{Rand: rand.New(rand.NewSource(2))})}
	for _, s := range []*Session{idle, busy} {
		if err := st.Save(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	if n, err := st.Sweep(ctx, time.Now().Add(-time.Hour)); err != nil || n != 0 {
		t.Fatalf("Sweep(an hour ago) = %d, %v; want nothing removed", n, err)
	}

	cutoff := time.Now().Add(time.Millisecond)
	time.Sleep(2 * time.Millisecond)
	_ = busy.Do(func(*game.Game) error { return nil })

	n, err := st.Sweep(ctx, cutoff)
	if err != nil || n != 1 {
		t.Fatalf("Sweep = %d, %v; want 1 removed", n, err)
	}
	if _, err := st.Get(ctx, idle.Game.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("idle session survived: %v", err)
	}
	if _, err := st.Get(ctx, busy.Game.ID); err != nil {
		t.Errorf("active session evicted: %v", err)
	}
}
