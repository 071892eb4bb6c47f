package game

// Choice identifies one of a question's two options.
type Choice string

const (
	ChoiceA Choice = "A"
	ChoiceB Choice = "B"
)

// Valid reports whether c is one of the two legal choices.
func (c Choice) Valid() bool {
	return c == ChoiceA || c == ChoiceB
}

// Scenario is a prompt one player writes about another. Its text is set at
// most once: either by the author's submission or defaulted to empty when
// the writing deadline passes.
type Scenario struct {
	Author *Player
	Target *Player

	text    string
	written bool
}

// Written reports whether the scenario's text has been finalized.
func (s *Scenario) Written() bool {
	return s.written
}

// Text returns the finalized text, empty until written.
func (s *Scenario) Text() string {
	return s.text
}

// SetText finalizes the scenario. Later calls are ignored.
func (s *Scenario) SetText(text string) {
	if s.written {
		return
	}
	s.text = text
	s.written = true
}

// Option reinterprets the scenario as an answer choice for its target.
func (s *Scenario) Option() Option {
	return Option{Author: s.Author, Text: s.text}
}

// Option is a finalized scenario text offered as an answer choice.
type Option struct {
	Author *Player
	Text   string
}

// Question pairs a target's two options with their eventual choice.
type Question struct {
	OptionA Option
	OptionB Option

	choice Choice
}

// Answered reports whether the target has made a choice.
func (q *Question) Answered() bool {
	return q.choice != ""
}

// Choice returns the recorded choice, empty while unanswered.
func (q *Question) Choice() Choice {
	return q.choice
}

// Answer records the target's choice. The first valid answer wins; it
// returns false if the question was already answered.
func (q *Question) Answer(c Choice) bool {
	if q.Answered() || !c.Valid() {
		return false
	}
	q.choice = c
	return true
}

// TargetedQuestion is a question together with the player it is about,
// consumed one at a time by the guessing sequence.
type TargetedQuestion struct {
	*Question
	Target *Player
}
