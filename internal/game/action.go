package game

import "fmt"

// ActionKind identifies the structural operation an action code decodes to.
type ActionKind int

const (
	ActionMoveBoardToBoard ActionKind = iota
	ActionMoveBoardToBench
	ActionSellFromBoard
	ActionMoveBenchToBoard
	ActionSellFromBench
	ActionPurchase
	ActionRefresh
	ActionIdle
)

func (a ActionKind) String() string {
	switch a {
	case ActionMoveBoardToBoard:
		return "Move Board→Board"
	case ActionMoveBoardToBench:
		return "Move Board→Bench"
	case ActionSellFromBoard:
		return "Sell From Board"
	case ActionMoveBenchToBoard:
		return "Move Bench→Board"
	case ActionSellFromBench:
		return "Sell From Bench"
	case ActionPurchase:
		return "Purchase"
	case ActionRefresh:
		return "Refresh Shop"
	case ActionIdle:
		return "Idle"
	default:
		return "Unknown"
	}
}

// Action is a decoded action code. From and To are slot indices within
// the zone implied by Kind; unused fields are zero.
type Action struct {
	Kind ActionKind
	From int
	To   int
}

func (a Action) String() string {
	switch a.Kind {
	case ActionMoveBoardToBoard:
		return fmt.Sprintf("Move board %d → board %d", a.From, a.To)
	case ActionMoveBoardToBench:
		return fmt.Sprintf("Move board %d → bench %d", a.From, a.To)
	case ActionSellFromBoard:
		return fmt.Sprintf("Sell board %d", a.From)
	case ActionMoveBenchToBoard:
		return fmt.Sprintf("Move bench %d → board %d", a.From, a.To)
	case ActionSellFromBench:
		return fmt.Sprintf("Sell bench %d", a.From)
	case ActionPurchase:
		return fmt.Sprintf("Buy shop %d", a.From)
	default:
		return a.Kind.String()
	}
}

// ActionSpace is the dense bijection between action codes and actions.
// Codes are laid out in four contiguous zones:
//
//	board origin: per board slot, board-1 board moves (self excluded),
//	              bench moves, then sell
//	bench origin: per bench slot, board moves, then sell
//	shop:         one purchase per shop slot
//	terminal:     refresh, then idle
type ActionSpace struct {
	board, bench, shop int
}

// NewActionSpace returns the action space for the given slot counts.
func NewActionSpace(board, bench, shop int) ActionSpace {
	return ActionSpace{board: board, bench: bench, shop: shop}
}

// boardStride is the number of codes per board origin.
func (s ActionSpace) boardStride() int { return s.board - 1 + s.bench + 1 }

// benchStride is the number of codes per bench origin.
func (s ActionSpace) benchStride() int { return s.board + 1 }

func (s ActionSpace) benchZone() int { return s.board * s.boardStride() }
func (s ActionSpace) shopZone() int  { return s.benchZone() + s.bench*s.benchStride() }

// RefreshCode is the code of the refresh action.
func (s ActionSpace) RefreshCode() int { return s.shopZone() + s.shop }

// IdleCode is the code of the idle action.
func (s ActionSpace) IdleCode() int { return s.RefreshCode() + 1 }

// Size returns the number of codes.
func (s ActionSpace) Size() int { return s.IdleCode() + 1 }

// Decode maps a code to its action.
func (s ActionSpace) Decode(code int) (Action, error) {
	if code < 0 || code >= s.Size() {
		return Action{}, fmt.Errorf("%w: code %d outside [0, %d)", ErrInvalidAction, code, s.Size())
	}
	switch {
	case code < s.benchZone():
		from := code / s.boardStride()
		d := code % s.boardStride()
		switch {
		case d < s.board-1:
			to := d
			if to >= from {
				to++
			}
			return Action{Kind: ActionMoveBoardToBoard, From: from, To: to}, nil
		case d < s.board-1+s.bench:
			return Action{Kind: ActionMoveBoardToBench, From: from, To: d - (s.board - 1)}, nil
		default:
			return Action{Kind: ActionSellFromBoard, From: from}, nil
		}
	case code < s.shopZone():
		rel := code - s.benchZone()
		from := rel / s.benchStride()
		d := rel % s.benchStride()
		if d < s.board {
			return Action{Kind: ActionMoveBenchToBoard, From: from, To: d}, nil
		}
		return Action{Kind: ActionSellFromBench, From: from}, nil
	case code < s.RefreshCode():
		return Action{Kind: ActionPurchase, From: code - s.shopZone()}, nil
	case code == s.RefreshCode():
		return Action{Kind: ActionRefresh}, nil
	default:
		return Action{Kind: ActionIdle}, nil
	}
}

// Encode maps an action to its code.
func (s ActionSpace) Encode(a Action) (int, error) {
	inBoard := func(i int) bool { return i >= 0 && i < s.board }
	inBench := func(i int) bool { return i >= 0 && i < s.bench }

	switch a.Kind {
	case ActionMoveBoardToBoard:
		if !inBoard(a.From) || !inBoard(a.To) || a.From == a.To {
			break
		}
		d := a.To
		if a.To > a.From {
			d--
		}
		return a.From*s.boardStride() + d, nil
	case ActionMoveBoardToBench:
		if !inBoard(a.From) || !inBench(a.To) {
			break
		}
		return a.From*s.boardStride() + s.board - 1 + a.To, nil
	case ActionSellFromBoard:
		if !inBoard(a.From) {
			break
		}
		return a.From*s.boardStride() + s.boardStride() - 1, nil
	case ActionMoveBenchToBoard:
		if !inBench(a.From) || !inBoard(a.To) {
			break
		}
		return s.benchZone() + a.From*s.benchStride() + a.To, nil
	case ActionSellFromBench:
		if !inBench(a.From) {
			break
		}
		return s.benchZone() + a.From*s.benchStride() + s.board, nil
	case ActionPurchase:
		if a.From < 0 || a.From >= s.shop {
			break
		}
		return s.shopZone() + a.From, nil
	case ActionRefresh:
		return s.RefreshCode(), nil
	case ActionIdle:
		return s.IdleCode(), nil
	}
	return 0, fmt.Errorf("%w: %s has no code", ErrInvalidAction, a)
}
