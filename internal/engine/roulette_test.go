package engine_test

import (
	"errors"
	"testing"

	"casino-engine/internal/engine"
	appErr "casino-engine/pkg/errors"
)

func rouletteRound(balance int64, pocket int) (*engine.ChipLedger, *engine.RouletteRound) {
	ledger := engine.NewChipLedger(balance)
	round := engine.NewRouletteRound(ledger, engine.Limits{MinBet: 1, MaxBet: 500}, fixedSource{n: pocket})
	return ledger, round
}

func TestRouletteStraightWinPaysThirtyFiveToOne(t *testing.T) {
	ledger, round := rouletteRound(1000, 17)

	if err := round.PlaceBet("straight:17", 10); err != nil {
		t.Fatalf("PlaceBet error: %v", err)
	}
	if got := ledger.Balance(); got != 990 {
		t.Fatalf("balance after bet = %d, want 990", got)
	}
	if err := round.Spin(); err != nil {
		t.Fatalf("Spin error: %v", err)
	}
	if got := round.Payout(); got != 360 {
		t.Fatalf("payout = %d, want 360", got)
	}
	if got := ledger.Balance(); got != 1350 {
		t.Fatalf("balance = %d, want 1350", got)
	}
}

func TestRouletteStraightMissLosesStake(t *testing.T) {
	ledger, round := rouletteRound(1000, 18)

	if err := round.PlaceBet("straight:17", 10); err != nil {
		t.Fatalf("PlaceBet error: %v", err)
	}
	if err := round.Spin(); err != nil {
		t.Fatalf("Spin error: %v", err)
	}
	if got := round.Payout(); got != 0 {
		t.Fatalf("payout = %d, want 0", got)
	}
	if got := ledger.Balance(); got != 990 {
		t.Fatalf("balance = %d, want 990", got)
	}
}

func TestRouletteOutsideBets(t *testing.T) {
	categories := []string{"red", "black", "even", "odd", "low", "high"}
	cases := []struct {
		name   string
		pocket int
		payout int64
	}{
		// 14 is red, even, low; each winner returns 2x its 10.
		{"red even low", 14, 60},
		// 35 is black, odd, high.
		{"black odd high", 35, 60},
		// Zero wins no outside category.
		{"zero beats the table", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger, round := rouletteRound(1000, tc.pocket)
			for _, cat := range categories {
				if err := round.PlaceBet(cat, 10); err != nil {
					t.Fatalf("PlaceBet(%s) error: %v", cat, err)
				}
			}
			if err := round.Spin(); err != nil {
				t.Fatalf("Spin error: %v", err)
			}
			if got := round.Payout(); got != tc.payout {
				t.Fatalf("payout = %d, want %d", got, tc.payout)
			}
			if got := ledger.Balance(); got != 1000-60+tc.payout {
				t.Fatalf("balance = %d, want %d", got, 1000-60+tc.payout)
			}
		})
	}
}

func TestRouletteStraightZeroStillPays(t *testing.T) {
	ledger, round := rouletteRound(1000, 0)

	if err := round.PlaceBet("straight:0", 10); err != nil {
		t.Fatalf("PlaceBet error: %v", err)
	}
	if err := round.Spin(); err != nil {
		t.Fatalf("Spin error: %v", err)
	}
	if got := ledger.Balance(); got != 1350 {
		t.Fatalf("balance = %d, want 1350", got)
	}

	state := round.Snapshot()
	if state.Pocket == nil || *state.Pocket != 0 || state.Color != engine.Green {
		t.Fatalf("snapshot pocket = %v color = %s, want 0 green", state.Pocket, state.Color)
	}
}

func TestRouletteClearRefundsEverything(t *testing.T) {
	ledger, round := rouletteRound(1000, 17)

	if err := round.PlaceBet("red", 50); err != nil {
		t.Fatalf("PlaceBet error: %v", err)
	}
	if err := round.PlaceBet("straight:4", 25); err != nil {
		t.Fatalf("PlaceBet error: %v", err)
	}
	if got := ledger.Balance(); got != 925 {
		t.Fatalf("balance = %d, want 925", got)
	}

	if err := round.ClearBets(); err != nil {
		t.Fatalf("ClearBets error: %v", err)
	}
	if got := ledger.Balance(); got != 1000 {
		t.Fatalf("balance = %d after clear, want 1000", got)
	}
	if got := round.Staked(); got != 0 {
		t.Fatalf("staked = %d after clear, want 0", got)
	}
	if err := round.Spin(); !errors.Is(err, appErr.ErrInvalidAction) {
		t.Fatalf("Spin with no bets error = %v, want ErrInvalidAction", err)
	}
}

func TestRouletteBetsAccumulatePerCategory(t *testing.T) {
	ledger, round := rouletteRound(1000, 5)

	if err := round.PlaceBet("red", 300); err != nil {
		t.Fatalf("PlaceBet error: %v", err)
	}
	// The table maximum applies to the accumulated category total.
	if err := round.PlaceBet("red", 300); !errors.Is(err, appErr.ErrBetLimit) {
		t.Fatalf("second PlaceBet error = %v, want ErrBetLimit", err)
	}
	if got := round.Staked(); got != 300 {
		t.Fatalf("staked = %d after rejection, want 300", got)
	}
	if got := ledger.Balance(); got != 700 {
		t.Fatalf("balance = %d after rejection, want 700", got)
	}

	if err := round.PlaceBet("red", 200); err != nil {
		t.Fatalf("top-up PlaceBet error: %v", err)
	}
	if err := round.Spin(); err != nil {
		t.Fatalf("Spin error: %v", err)
	}
	// 5 is red: the combined 500 returns 1000.
	if got := round.Payout(); got != 1000 {
		t.Fatalf("payout = %d, want 1000", got)
	}
}

func TestRouletteRejectsUnknownCategory(t *testing.T) {
	_, round := rouletteRound(1000, 5)

	for _, bad := range []string{"purple", "straight:37", "straight:-1", "straight:x", ""} {
		if err := round.PlaceBet(bad, 10); !errors.Is(err, appErr.ErrInvalidBetCategory) {
			t.Fatalf("PlaceBet(%q) error = %v, want ErrInvalidBetCategory", bad, err)
		}
	}
}

func TestParseBetCategoryNormalizes(t *testing.T) {
	got, err := engine.ParseBetCategory("  RED ")
	if err != nil {
		t.Fatalf("ParseBetCategory error: %v", err)
	}
	if got != engine.BetRed {
		t.Fatalf("category = %q, want red", got)
	}
	if got, err = engine.ParseBetCategory("Straight:07"); err != nil || got != engine.Straight(7) {
		t.Fatalf("category = %q err = %v, want straight:7", got, err)
	}
}

func TestPocketColor(t *testing.T) {
	if engine.PocketColor(0) != engine.Green {
		t.Fatal("0 should be green")
	}
	if engine.PocketColor(32) != engine.Red {
		t.Fatal("32 should be red")
	}
	if engine.PocketColor(17) != engine.Black {
		t.Fatal("17 should be black")
	}
	reds := 0
	for p := 1; p <= 36; p++ {
		if engine.PocketColor(p) == engine.Red {
			reds++
		}
	}
	if reds != 18 {
		t.Fatalf("red pockets = %d, want 18", reds)
	}
}
