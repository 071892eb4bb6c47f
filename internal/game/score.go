package game

import "sort"

// ScoreTable maps players to their running score for a whole game. It is
// owned by the Playing phase; Scoring mutates it through a live reference,
// the one sanctioned exception to per-phase state ownership.
type ScoreTable struct {
	order  []*Player // registration order, the tie-break for rankings
	scores map[*Player]int
}

// NewScoreTable creates an empty table.
func NewScoreTable() *ScoreTable {
	return &ScoreTable{
		scores: make(map[*Player]int),
	}
}

// Register adds a player at score zero. Registering twice is a no-op.
func (t *ScoreTable) Register(p *Player) {
	if _, ok := t.scores[p]; ok {
		return
	}
	t.order = append(t.order, p)
	t.scores[p] = 0
}

// Get returns a player's score.
func (t *ScoreTable) Get(p *Player) int {
	return t.scores[p]
}

// Add increases a player's score by delta.
func (t *ScoreTable) Add(p *Player, delta int) {
	t.scores[p] += delta
}

// Len returns the number of registered players.
func (t *ScoreTable) Len() int {
	return len(t.order)
}

// Standing is one row of a ranking.
type Standing struct {
	Player *Player
	Score  int
}

// Ranking returns standings sorted ascending by score. The sort is stable
// over registration order, so ties keep their relative positions; index 0
// is the lowest score.
func (t *ScoreTable) Ranking() []Standing {
	standings := make([]Standing, 0, len(t.order))
	for _, p := range t.order {
		standings = append(standings, Standing{Player: p, Score: t.scores[p]})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score < standings[j].Score
	})
	return standings
}

// Positions maps each player to their index in the given ranking.
func Positions(ranking []Standing) map[*Player]int {
	positions := make(map[*Player]int, len(ranking))
	for i, s := range ranking {
		positions[s.Player] = i
	}
	return positions
}
