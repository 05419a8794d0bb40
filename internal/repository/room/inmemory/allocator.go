package inmemory

import (
	"github.com/pianoparty/server/pkg/scale"
)

// availableKeys returns the active scale's key indices minus the keys held
// by non-spectator players, preserving scale order. Allocation always takes
// the first element, so the earliest-in-scale free key wins.
func availableKeys(rm *roomState) []int {
	keys := scale.Get(rm.scaleName)

	used := make(map[int]struct{}, len(rm.players))
	for _, p := range rm.players {
		if !p.IsSpectator && p.KeyIndex >= 0 {
			used[p.KeyIndex] = struct{}{}
		}
	}

	available := make([]int, 0, len(keys))
	for _, k := range keys {
		if _, ok := used[k]; !ok {
			available = append(available, k)
		}
	}

	return available
}

// reassignForScaleChange hands out the new scale's keys positionally: the
// k-th active player by join order gets the k-th key. Players beyond the
// scale's size are demoted to spectator. Spectators are never promoted.
func reassignForScaleChange(rm *roomState) {
	keys := scale.Get(rm.scaleName)

	next := 0
	for _, id := range rm.order {
		p := rm.players[id]
		if p.IsSpectator {
			continue
		}

		if next < len(keys) {
			p.KeyIndex = keys[next]
			next++
		} else {
			p.KeyIndex = -1
			p.IsSpectator = true
		}
	}
}
