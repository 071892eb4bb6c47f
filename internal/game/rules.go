package game

import "time"

// Rules holds the tunable parameters of a game.
type Rules struct {
	MinPlayers    int
	Rounds        int
	PromptTimeout time.Duration // writing, answering and guessing deadlines
	ResultsDelay  time.Duration // pause on the results screen
}

// DefaultRules returns the standard parameters: three rounds, 30-second
// prompts, 20 seconds on results.
func DefaultRules() Rules {
	return Rules{
		MinPlayers:    3,
		Rounds:        3,
		PromptTimeout: 30 * time.Second,
		ResultsDelay:  20 * time.Second,
	}
}

// promptSeconds is the time limit advertised in player prompts.
func (r Rules) promptSeconds() int {
	return int(r.PromptTimeout / time.Second)
}
