package game

import (
	"errors"
	"math/rand"
	"testing"
)

func TestAddChampionMergesWithBoardUnit(t *testing.T) {
	p := testPlayer(0)
	c := NewChampion(0, 1)
	p.board[0] = Some(c)

	if !p.AddChampion(c) {
		t.Fatal("expected AddChampion to succeed")
	}

	got, ok := p.board[0].Get()
	if !ok || got.Level != 1 {
		t.Fatalf("expected a level-1 unit on board 0, got %s", p.board[0])
	}
	for i, s := range p.bench {
		if s.Occupied() {
			t.Errorf("bench %d should be empty, holds %s", i, s)
		}
	}
	for i, s := range p.shop {
		if s.Occupied() {
			t.Errorf("shop %d should be untouched, holds %s", i, s)
		}
	}
	if p.HeldValue() != 2 {
		t.Errorf("expected held value 2, got %d", p.HeldValue())
	}
}

func TestAddChampionFillsFirstFreeBenchSlot(t *testing.T) {
	p := testPlayer(0)
	p.bench[0] = Some(NewChampion(0, 0))

	if !p.AddChampion(NewChampion(1, 0)) {
		t.Fatal("expected AddChampion to succeed")
	}
	if c, _ := p.bench[1].Get(); c != NewChampion(1, 0) {
		t.Errorf("expected new unit on bench 1, got %s", p.bench[1])
	}

	if p.AddChampion(NewChampion(2, 0)) {
		t.Error("expected AddChampion to fail with a full bench and no merge target")
	}
}

func TestAddChampionCascades(t *testing.T) {
	p := testPlayer(0)
	c := NewChampion(2, 0)
	p.board[0] = Some(c.LevelUp())
	p.bench[0] = Some(c)

	if !p.AddChampion(c) {
		t.Fatal("expected AddChampion to succeed")
	}

	got, ok := p.board[0].Get()
	if !ok || got.Level != 2 {
		t.Fatalf("expected the cascade to leave a level-2 unit on board 0, got %s", p.board[0])
	}
	if p.bench[0].Occupied() {
		t.Errorf("expected bench 0 emptied by the cascade, holds %s", p.bench[0])
	}
	if p.HeldValue() != 4 {
		t.Errorf("expected held value 4, got %d", p.HeldValue())
	}
}

func TestFindMatchesEarlierSlotLevels(t *testing.T) {
	p := testPlayer(0)
	c := NewChampion(1, 1)
	p.board[2] = Some(c)
	p.bench[1] = Some(c)

	if n := p.FindMatches(); n != 1 {
		t.Fatalf("expected 1 merge, got %d", n)
	}
	if got, _ := p.board[2].Get(); got.Level != 1 {
		t.Errorf("expected board 2 to level up, got %s", p.board[2])
	}
	if p.bench[1].Occupied() {
		t.Error("expected bench 1 to be emptied")
	}
	if n := p.FindMatches(); n != 0 {
		t.Errorf("expected a fixed point, got %d more merges", n)
	}
}

func TestSellLevelTwoUnit(t *testing.T) {
	pool := NewChampionPool(1, 3, 3, NewRNG(1))
	p := testPlayer(0)
	p.bench[0] = Some(Champion{PreferredPosition: 0, Team: 1, Level: 2})
	before := pool.Count(0, 1)

	if err := p.SellFromBench(pool, 0); err != nil {
		t.Fatalf("SellFromBench: %v", err)
	}

	if p.Gold() != 4 {
		t.Errorf("expected 4 gold, got %d", p.Gold())
	}
	if got := pool.Count(0, 1) - before; got != 4 {
		t.Errorf("expected 4 copies back in the pool, got %d", got)
	}
	if p.bench[0].Occupied() {
		t.Error("expected bench 0 to be empty after the sale")
	}
}

func TestSellEmptySlotIsNoOp(t *testing.T) {
	pool := NewChampionPool(1, 3, 3, NewRNG(1))
	p := testPlayer(2)
	if err := p.SellFromBoard(pool, 1); err != nil {
		t.Fatalf("SellFromBoard: %v", err)
	}
	if p.Gold() != 2 || pool.Len() != 9 {
		t.Errorf("expected nothing to change, gold=%d pool=%d", p.Gold(), pool.Len())
	}
}

func TestPurchase(t *testing.T) {
	p := testPlayer(2)
	p.shop[0] = Some(NewChampion(1, 2))

	ok, err := p.PurchaseFromShop(0)
	if err != nil || !ok {
		t.Fatalf("PurchaseFromShop: ok=%v err=%v", ok, err)
	}
	if p.Gold() != 1 {
		t.Errorf("expected 1 gold left, got %d", p.Gold())
	}
	if p.shop[0].Occupied() {
		t.Error("expected shop 0 to be emptied")
	}
	if c, _ := p.bench[0].Get(); c != NewChampion(1, 2) {
		t.Errorf("expected the purchase on bench 0, got %s", p.bench[0])
	}

	if _, err := p.PurchaseFromShop(0); !errors.Is(err, ErrEmptySlot) {
		t.Errorf("expected ErrEmptySlot, got %v", err)
	}
}

func TestPurchaseWithoutRoom(t *testing.T) {
	p := testPlayer(3)
	p.bench[0] = Some(NewChampion(0, 0))
	p.bench[1] = Some(NewChampion(1, 0))
	p.shop[1] = Some(NewChampion(2, 2))

	ok, err := p.PurchaseFromShop(1)
	if err != nil {
		t.Fatalf("PurchaseFromShop: %v", err)
	}
	if ok {
		t.Fatal("expected the purchase to be declined")
	}
	if p.Gold() != 3 || !p.shop[1].Occupied() {
		t.Errorf("expected gold and shop untouched, gold=%d shop=%s", p.Gold(), p.shop[1])
	}

	// A merge target makes room.
	p.shop[0] = Some(NewChampion(1, 0))
	if ok, err := p.PurchaseFromShop(0); err != nil || !ok {
		t.Fatalf("expected a merge purchase, ok=%v err=%v", ok, err)
	}
	if c, _ := p.bench[1].Get(); c.Level != 1 {
		t.Errorf("expected bench 1 to level up, got %s", p.bench[1])
	}
}

func TestPurchaseNeedsGold(t *testing.T) {
	p := testPlayer(0)
	p.shop[0] = Some(NewChampion(0, 0))
	if _, err := p.PurchaseFromShop(0); !errors.Is(err, ErrInsufficientGold) {
		t.Errorf("expected ErrInsufficientGold, got %v", err)
	}
}

func TestRefreshShop(t *testing.T) {
	pool := NewChampionPool(1, 3, 3, NewRNG(5))
	p := testPlayer(1)

	if err := p.RefreshShop(pool); err != nil {
		t.Fatalf("RefreshShop: %v", err)
	}
	if p.Gold() != 0 || pool.Len() != 7 {
		t.Errorf("expected 0 gold and 7 pooled, got %d and %d", p.Gold(), pool.Len())
	}
	if err := p.RefreshShop(pool); !errors.Is(err, ErrInsufficientGold) {
		t.Errorf("expected ErrInsufficientGold, got %v", err)
	}
}

func TestRefreshShopFailsAtomicallyOnSmallPool(t *testing.T) {
	pool := NewChampionPool(1, 1, 1, NewRNG(5))
	p := testPlayer(3)
	p.shop[0] = Some(NewChampion(2, 2))
	shop := p.Shop()

	if err := p.RefreshShop(pool); err != nil {
		t.Fatalf("RefreshShop with enough returning offers: %v", err)
	}

	pool = NewChampionPool(1, 1, 1, NewRNG(5))
	if _, err := pool.Sample(1); err != nil {
		t.Fatal(err)
	}
	p = testPlayer(3)
	p.shop[0] = shop[0]
	if err := p.RefreshShop(pool); !errors.Is(err, ErrInsufficientPool) {
		t.Fatalf("expected ErrInsufficientPool, got %v", err)
	}
	if p.Gold() != 3 || p.shop[0] != shop[0] || pool.Len() != 0 {
		t.Errorf("expected nothing to change, gold=%d shop=%s pool=%d", p.Gold(), p.shop[0], pool.Len())
	}
}

func TestMovesOutOfBounds(t *testing.T) {
	p := testPlayer(0)
	checks := []error{
		p.MoveBoardToBoard(0, 3),
		p.MoveBoardToBench(3, 0),
		p.MoveBenchToBoard(2, 0),
		p.MoveBenchToBench(0, -1),
	}
	for i, err := range checks {
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("check %d: expected ErrOutOfBounds, got %v", i, err)
		}
	}
}

func TestMovesSwapSlots(t *testing.T) {
	p := testPlayer(0)
	a, b := NewChampion(0, 0), NewChampion(1, 1)
	p.board[0] = Some(a)
	p.bench[1] = Some(b)

	if err := p.MoveBoardToBench(0, 1); err != nil {
		t.Fatal(err)
	}
	if c, _ := p.board[0].Get(); c != b {
		t.Errorf("expected %s on board 0, got %s", b, p.board[0])
	}
	if c, _ := p.bench[1].Get(); c != a {
		t.Errorf("expected %s on bench 1, got %s", a, p.bench[1])
	}

	if err := p.MoveBenchToBench(1, 0); err != nil {
		t.Fatal(err)
	}
	if p.bench[1].Occupied() {
		t.Error("expected bench 1 to be empty after the swap")
	}
}

func TestBoardPower(t *testing.T) {
	p := testPlayer(0)
	// 2 (on its preferred position) + 1 + 2; the bench never counts.
	p.board[0] = Some(NewChampion(0, 0))
	p.board[1] = Some(NewChampion(2, 1))
	p.board[2] = Some(Champion{PreferredPosition: 1, Team: 0, Level: 1})
	p.bench[0] = Some(Champion{PreferredPosition: 0, Team: 2, Level: 2})

	// Team 0 covers positions 0 and 1: +1.
	if got := p.BoardPower(); got != 6 {
		t.Errorf("expected power 6, got %d", got)
	}
}

func TestNegativeAmounts(t *testing.T) {
	p := testPlayer(0)
	if err := p.AddGold(-1); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}
	if err := p.TakeDamage(-2); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestDeathCleanupRunsOnce(t *testing.T) {
	pool := NewChampionPool(1, 3, 3, NewRNG(2))
	p := testPlayer(0)
	p.board[0] = Some(Champion{PreferredPosition: 0, Team: 0, Level: 1})
	p.shop[1] = Some(NewChampion(2, 2))
	_ = p.TakeDamage(StartingHP)

	p.DeathCleanup(pool)
	if pool.Len() != 12 || p.HeldValue() != 0 || !p.Killed() {
		t.Fatalf("expected everything returned, pool=%d held=%d killed=%v", pool.Len(), p.HeldValue(), p.Killed())
	}

	p.DeathCleanup(pool)
	if pool.Len() != 12 {
		t.Errorf("second cleanup changed the pool to %d", pool.Len())
	}
}

func TestDeadPlayerIgnoresActions(t *testing.T) {
	pool := NewChampionPool(1, 3, 3, NewRNG(2))
	p := testPlayer(5)
	p.shop[0] = Some(NewChampion(0, 0))
	_ = p.TakeDamage(StartingHP)

	mask := p.ActionMask()
	for code, ok := range mask {
		if ok != (code == p.space.IdleCode()) {
			t.Errorf("code %d enabled=%v for a dead player", code, ok)
		}
	}
	if _, err := p.TakeAction(pool, p.space.shopZone()); err != nil {
		t.Fatalf("TakeAction: %v", err)
	}
	if p.Gold() != 5 || !p.shop[0].Occupied() {
		t.Error("dead player's purchase should be a no-op")
	}
}

// Every enabled code must succeed, over a long random walk.
func TestActionMaskIsSound(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	pool := NewChampionPool(5, 3, 3, NewRNG(11))
	p := testPlayer(3)
	if err := p.RefreshShop(pool); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3000; i++ {
		if i%7 == 0 {
			_ = p.AddGold(1)
		}
		legal := p.LegalActions()
		code := legal[r.Intn(len(legal))]
		if _, err := p.TakeAction(pool, code); err != nil {
			t.Fatalf("step %d: enabled code %d failed: %v", i, code, err)
		}
		if got := pool.Value() + p.HeldValue(); got != 45 {
			t.Fatalf("step %d: value %d, want 45", i, got)
		}
	}
}

func TestViewReportsFullZones(t *testing.T) {
	p := testPlayer(0)
	if v := p.View(); v.BoardFull || v.BenchFull {
		t.Fatalf("expected empty zones, got board_full=%v bench_full=%v", v.BoardFull, v.BenchFull)
	}
	for i := range p.board {
		p.board[i] = Some(NewChampion(i, 0))
	}
	p.bench[0] = Some(NewChampion(0, 1))
	v := p.View()
	if !v.BoardFull || v.BenchFull {
		t.Errorf("expected a full board and a free bench, got board_full=%v bench_full=%v", v.BoardFull, v.BenchFull)
	}
}
