package game

import (
	"fmt"

	"github.com/peterkuimelis/tftx/internal/log"
)

// AgentID names an agent within a game, e.g. "player_0".
type AgentID string

// Player represents one agent's entire state. A Player owns the champions
// in its board, bench and shop slots; the shared pool is passed in to the
// operations that hand champions back or draw new ones.
type Player struct {
	ID AgentID

	board []Slot
	bench []Slot
	shop  []Slot

	gold   int
	hp     int
	killed bool

	space ActionSpace
	emit  func(log.GameEvent)
}

// NewPlayer creates a player with empty slots, no gold and full HP.
func NewPlayer(id AgentID, boardSize, benchSize, shopSize int) *Player {
	return &Player{
		ID:    id,
		board: make([]Slot, boardSize),
		bench: make([]Slot, benchSize),
		shop:  make([]Slot, shopSize),
		hp:    StartingHP,
		space: NewActionSpace(boardSize, benchSize, shopSize),
	}
}

// Gold returns the player's gold.
func (p *Player) Gold() int { return p.gold }

// HP returns the player's remaining health.
func (p *Player) HP() int { return p.hp }

// Killed reports whether death cleanup has run.
func (p *Player) Killed() bool { return p.killed }

// Board returns a copy of the board slots.
func (p *Player) Board() []Slot { return append([]Slot(nil), p.board...) }

// Bench returns a copy of the bench slots.
func (p *Player) Bench() []Slot { return append([]Slot(nil), p.bench...) }

// Shop returns a copy of the shop slots.
func (p *Player) Shop() []Slot { return append([]Slot(nil), p.shop...) }

// ActionSpace returns the player's action code layout.
func (p *Player) ActionSpace() ActionSpace { return p.space }

// Alive reports whether the player still has health.
func (p *Player) Alive() bool { return p.hp > 0 }

func (p *Player) log(ev log.GameEvent) {
	if p.emit != nil {
		p.emit(ev)
	}
}

// TakeAction decodes and executes an action code. Eliminated players
// ignore every in-range code.
func (p *Player) TakeAction(pool *ChampionPool, code int) (Action, error) {
	a, err := p.space.Decode(code)
	if err != nil {
		return a, err
	}
	if !p.Alive() {
		return a, nil
	}

	switch a.Kind {
	case ActionMoveBoardToBoard:
		err = p.MoveBoardToBoard(a.From, a.To)
	case ActionMoveBoardToBench:
		err = p.MoveBoardToBench(a.From, a.To)
	case ActionSellFromBoard:
		err = p.SellFromBoard(pool, a.From)
	case ActionMoveBenchToBoard:
		err = p.MoveBenchToBoard(a.From, a.To)
	case ActionSellFromBench:
		err = p.SellFromBench(pool, a.From)
	case ActionPurchase:
		_, err = p.PurchaseFromShop(a.From)
	case ActionRefresh:
		err = p.RefreshShop(pool)
	case ActionIdle:
	}
	return a, err
}

// --- Structural operations ---

func checkIndex(zone string, i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %s index %d (size %d)", ErrOutOfBounds, zone, i, n)
	}
	return nil
}

// MoveBoardToBoard swaps two board slots.
func (p *Player) MoveBoardToBoard(from, to int) error {
	if err := checkIndex("board", from, len(p.board)); err != nil {
		return err
	}
	if err := checkIndex("board", to, len(p.board)); err != nil {
		return err
	}
	p.board[from], p.board[to] = p.board[to], p.board[from]
	return nil
}

// MoveBoardToBench swaps a board slot with a bench slot.
func (p *Player) MoveBoardToBench(from, to int) error {
	if err := checkIndex("board", from, len(p.board)); err != nil {
		return err
	}
	if err := checkIndex("bench", to, len(p.bench)); err != nil {
		return err
	}
	p.board[from], p.bench[to] = p.bench[to], p.board[from]
	return nil
}

// MoveBenchToBoard swaps a bench slot with a board slot.
func (p *Player) MoveBenchToBoard(from, to int) error {
	if err := checkIndex("bench", from, len(p.bench)); err != nil {
		return err
	}
	if err := checkIndex("board", to, len(p.board)); err != nil {
		return err
	}
	p.bench[from], p.board[to] = p.board[to], p.bench[from]
	return nil
}

// MoveBenchToBench swaps two bench slots.
func (p *Player) MoveBenchToBench(from, to int) error {
	if err := checkIndex("bench", from, len(p.bench)); err != nil {
		return err
	}
	if err := checkIndex("bench", to, len(p.bench)); err != nil {
		return err
	}
	p.bench[from], p.bench[to] = p.bench[to], p.bench[from]
	return nil
}

// SellFromBoard returns the board occupant to the pool for 2^level gold.
// Selling an empty slot does nothing.
func (p *Player) SellFromBoard(pool *ChampionPool, i int) error {
	if err := checkIndex("board", i, len(p.board)); err != nil {
		return err
	}
	p.sell(pool, &p.board[i])
	return nil
}

// SellFromBench returns the bench occupant to the pool for 2^level gold.
// Selling an empty slot does nothing.
func (p *Player) SellFromBench(pool *ChampionPool, i int) error {
	if err := checkIndex("bench", i, len(p.bench)); err != nil {
		return err
	}
	p.sell(pool, &p.bench[i])
	return nil
}

func (p *Player) sell(pool *ChampionPool, s *Slot) {
	c, ok := s.Get()
	if !ok {
		return
	}
	pool.Add(c)
	p.gold += c.Value()
	*s = Empty()
	p.log(log.NewSellEvent(string(p.ID), c.String(), c.Value()))
}

// PurchaseFromShop buys the champion in shop slot i for 1 gold. It
// returns false, with gold and shop untouched, when there is neither a
// merge target nor bench room.
func (p *Player) PurchaseFromShop(i int) (bool, error) {
	if err := checkIndex("shop", i, len(p.shop)); err != nil {
		return false, err
	}
	if p.gold <= 0 {
		return false, fmt.Errorf("%w: purchase needs 1 gold, have %d", ErrInsufficientGold, p.gold)
	}
	c, ok := p.shop[i].Get()
	if !ok {
		return false, fmt.Errorf("%w: shop slot %d", ErrEmptySlot, i)
	}
	if !p.AddChampion(c) {
		return false, nil
	}
	p.gold--
	p.shop[i] = Empty()
	p.log(log.NewPurchaseEvent(string(p.ID), c.String(), p.gold))
	return true, nil
}

// RefreshShop returns the current offers to the pool and draws a new
// shop for 1 gold. Nothing changes when it fails.
func (p *Player) RefreshShop(pool *ChampionPool) error {
	if p.gold <= 0 {
		return fmt.Errorf("%w: refresh needs 1 gold, have %d", ErrInsufficientGold, p.gold)
	}
	returning := 0
	for _, s := range p.shop {
		if s.Occupied() {
			returning++
		}
	}
	if pool.Len()+returning < len(p.shop) {
		return fmt.Errorf("%w: shop needs %d champions, pool would hold %d", ErrInsufficientPool, len(p.shop), pool.Len()+returning)
	}

	for i, s := range p.shop {
		if c, ok := s.Get(); ok {
			pool.Add(c)
			p.shop[i] = Empty()
		}
	}
	drawn, err := pool.Sample(len(p.shop))
	if err != nil {
		return err
	}
	for i, c := range drawn {
		p.shop[i] = Some(c)
	}
	p.gold--
	p.log(log.NewRefreshEvent(string(p.ID), slotNames(p.shop)))
	return nil
}

// AddChampion gives c to the player. If a unit on the board or bench is
// mergeable with c, that unit levels up, c is consumed and the merge
// cascade runs. Otherwise c takes the first free bench slot. It reports
// false when neither is possible.
func (p *Player) AddChampion(c Champion) bool {
	for _, s := range p.slotRefs() {
		if held, ok := s.Get(); ok && held.Mergeable(c) {
			*s = Some(held.LevelUp())
			p.log(log.NewMergeEvent(string(p.ID), s.champ.String()))
			p.FindMatches()
			return true
		}
	}
	return p.AddToBench(c)
}

// AddToBench places c in the first free bench slot.
func (p *Player) AddToBench(c Champion) bool {
	for i, s := range p.bench {
		if !s.Occupied() {
			p.bench[i] = Some(c)
			return true
		}
	}
	return false
}

// FindMatches merges mergeable pairs until none remain and returns the
// number of merges. Board slots are scanned before bench slots; the
// earlier unit of a pair levels up and the later one is removed. Every
// merge empties a slot, so the loop terminates.
func (p *Player) FindMatches() int {
	merges := 0
	for p.mergeOnce() {
		merges++
	}
	return merges
}

func (p *Player) mergeOnce() bool {
	slots := p.slotRefs()
	for i, a := range slots {
		ca, ok := a.Get()
		if !ok {
			continue
		}
		for _, b := range slots[i+1:] {
			if cb, ok := b.Get(); ok && ca.Mergeable(cb) {
				*a = Some(ca.LevelUp())
				*b = Empty()
				p.log(log.NewMergeEvent(string(p.ID), a.champ.String()))
				return true
			}
		}
	}
	return false
}

// slotRefs returns pointers to the board slots followed by the bench slots.
func (p *Player) slotRefs() []*Slot {
	refs := make([]*Slot, 0, len(p.board)+len(p.bench))
	for i := range p.board {
		refs = append(refs, &p.board[i])
	}
	for i := range p.bench {
		refs = append(refs, &p.bench[i])
	}
	return refs
}

// hasMergeTarget reports whether the board or bench holds a unit mergeable with c.
func (p *Player) hasMergeTarget(c Champion) bool {
	for _, s := range p.slotRefs() {
		if held, ok := s.Get(); ok && held.Mergeable(c) {
			return true
		}
	}
	return false
}

// BoardPower scores the board for combat: level+1 per unit, +1 for each
// unit standing on its preferred position, and per team one point for
// every distinct preferred position beyond the first.
func (p *Player) BoardPower() int {
	pwr := 0
	teams := make(map[int]map[int]struct{})
	for i, s := range p.board {
		c, ok := s.Get()
		if !ok {
			continue
		}
		pwr += c.Level + 1
		if i == c.PreferredPosition {
			pwr++
		}
		if teams[c.Team] == nil {
			teams[c.Team] = make(map[int]struct{})
		}
		teams[c.Team][c.PreferredPosition] = struct{}{}
	}
	for _, positions := range teams {
		pwr += max(0, len(positions)-1)
	}
	return pwr
}

// AddGold credits the player.
func (p *Player) AddGold(amount int) error {
	if amount < 0 {
		return fmt.Errorf("%w: cannot add %d gold", ErrNegativeAmount, amount)
	}
	p.gold += amount
	return nil
}

// TakeDamage reduces the player's health.
func (p *Player) TakeDamage(amount int) error {
	if amount < 0 {
		return fmt.Errorf("%w: cannot inflict %d damage", ErrNegativeAmount, amount)
	}
	p.hp -= amount
	return nil
}

// BoardFull reports whether every board slot is occupied.
func (p *Player) BoardFull() bool { return full(p.board) }

// BenchFull reports whether every bench slot is occupied.
func (p *Player) BenchFull() bool { return full(p.bench) }

func full(slots []Slot) bool {
	for _, s := range slots {
		if !s.Occupied() {
			return false
		}
	}
	return true
}

// HeldValue returns the base-unit value of everything on the board, bench and shop.
func (p *Player) HeldValue() int {
	v := 0
	for _, zone := range [][]Slot{p.board, p.bench, p.shop} {
		for _, s := range zone {
			if c, ok := s.Get(); ok {
				v += c.Value()
			}
		}
	}
	return v
}

// DeathCleanup returns every champion the player holds to the pool. It
// runs at most once.
func (p *Player) DeathCleanup(pool *ChampionPool) {
	if p.killed {
		return
	}
	for _, zone := range [][]Slot{p.board, p.bench, p.shop} {
		for i, s := range zone {
			if c, ok := s.Get(); ok {
				pool.Add(c)
				zone[i] = Empty()
			}
		}
	}
	p.killed = true
}

// clone returns a deep copy that does not emit events.
func (p *Player) clone() *Player {
	cp := *p
	cp.board = p.Board()
	cp.bench = p.Bench()
	cp.shop = p.Shop()
	cp.emit = nil
	return &cp
}
