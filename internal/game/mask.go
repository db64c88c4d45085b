package game

// ActionMask returns which action codes are legal for the player right now.
// Every enabled code succeeds when taken. An eliminated player may only idle.
func (p *Player) ActionMask() []bool {
	s := p.space
	mask := make([]bool, s.Size())
	mask[s.IdleCode()] = true
	if !p.Alive() {
		return mask
	}

	for i, slot := range p.board {
		if !slot.Occupied() {
			continue
		}
		start := i * s.boardStride()
		for d := 0; d < s.boardStride(); d++ {
			mask[start+d] = true
		}
	}

	for i, slot := range p.bench {
		if !slot.Occupied() {
			continue
		}
		start := s.benchZone() + i*s.benchStride()
		for d := 0; d < s.benchStride(); d++ {
			mask[start+d] = true
		}
	}

	if p.gold > 0 {
		benchRoom := !p.BenchFull()
		for i, slot := range p.shop {
			c, ok := slot.Get()
			if ok && (benchRoom || p.hasMergeTarget(c)) {
				mask[s.shopZone()+i] = true
			}
		}
		mask[s.RefreshCode()] = true
	}
	return mask
}

// LegalActions returns the enabled codes of ActionMask in ascending order.
func (p *Player) LegalActions() []int {
	var codes []int
	for code, ok := range p.ActionMask() {
		if ok {
			codes = append(codes, code)
		}
	}
	return codes
}
