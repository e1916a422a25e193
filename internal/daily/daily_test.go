package daily

import (
	"reflect"
	"testing"
	"time"

	"github.com/robalobadob/herding/internal/game"
)

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2026, 3, 2, 5, 0, 0, 0, loc) // 1 March 19:00 UTC
	if got := DateKey(local); got != "2026-03-01" {
		t.Errorf("DateKey = %q, want 2026-03-01", got)
	}
}

func TestSeedDeterministic(t *testing.T) {
	day := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	later := day.Add(6 * time.Hour)
	next := day.Add(24 * time.Hour)

	if Seed(day, "salt") != Seed(later, "salt") {
		t.Error("same day produced different seeds")
	}
	if Seed(day, "salt") == Seed(next, "salt") {
		t.Error("consecutive days share a seed")
	}
	if Seed(day, "salt") == Seed(day, "pepper") {
		t.Error("salt does not affect the seed")
	}
	if Seed(day, "salt") < 0 {
		t.Error("seed is negative")
	}
}

func TestSameDaySameHerd(t *testing.T) {
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	a := game.New(game.Options{Rand: Rand(day, "s")}).Snapshot()
	b := game.New(game.Options{Rand: Rand(day.Add(time.Hour), "s")}).Snapshot()

	if !reflect.DeepEqual(a.Cows, b.Cows) || !reflect.DeepEqual(a.Hand, b.Hand) {
		t.Fatal("daily herds differ within one day")
	}
}
