package game

import "math/rand"

// maxAssignAttempts bounds the randomized draw before falling back to the
// deterministic ring assignment.
const maxAssignAttempts = 20

// AssignTargets gives each player an ordered pair of distinct targets such
// that, over all players, every player is targeted exactly twice and nobody
// targets themselves. Requires at least three players.
//
// The draw works over a pool holding every player twice: for each author it
// removes two uniformly random slots, excluding the author and the first
// pick. That can dead-end for the last authors, so failed draws are retried
// and, if the retries run out, a shuffled ring (each player targets the
// next two) is used instead.
func AssignTargets(players []*Player, rng *rand.Rand) (map[*Player][2]*Player, error) {
	if len(players) < 3 {
		return nil, ErrTooFewPlayers
	}

	for attempt := 0; attempt < maxAssignAttempts; attempt++ {
		if targets, ok := drawTargets(players, rng); ok {
			return targets, nil
		}
	}

	return ringTargets(players, rng), nil
}

func drawTargets(players []*Player, rng *rand.Rand) (map[*Player][2]*Player, bool) {
	pool := make([]*Player, 0, 2*len(players))
	pool = append(pool, players...)
	pool = append(pool, players...)

	targets := make(map[*Player][2]*Player, len(players))
	for _, author := range players {
		first, ok := drawFromPool(&pool, rng, author, nil)
		if !ok {
			return nil, false
		}
		second, ok := drawFromPool(&pool, rng, author, first)
		if !ok {
			return nil, false
		}
		targets[author] = [2]*Player{first, second}
	}
	return targets, true
}

// drawFromPool removes and returns one uniformly random slot that is
// neither the author nor the excluded player.
func drawFromPool(pool *[]*Player, rng *rand.Rand, author, exclude *Player) (*Player, bool) {
	candidates := make([]int, 0, len(*pool))
	for i, p := range *pool {
		if p != author && p != exclude {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}

	idx := candidates[rng.Intn(len(candidates))]
	picked := (*pool)[idx]
	*pool = append((*pool)[:idx], (*pool)[idx+1:]...)
	return picked, true
}

// ringTargets assigns targets around a shuffled ring: each player targets
// the two players after them. Valid for any count of three or more.
func ringTargets(players []*Player, rng *rand.Rand) map[*Player][2]*Player {
	ring := make([]*Player, len(players))
	copy(ring, players)
	rng.Shuffle(len(ring), func(i, j int) {
		ring[i], ring[j] = ring[j], ring[i]
	})

	targets := make(map[*Player][2]*Player, len(ring))
	for i, author := range ring {
		targets[author] = [2]*Player{
			ring[(i+1)%len(ring)],
			ring[(i+2)%len(ring)],
		}
	}
	return targets
}
