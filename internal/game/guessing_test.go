package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wouldyourather/internal/engine"
)

// continueCapture sits above the guessing sequencer and counts the round
// advances it emits.
type continueCapture struct {
	engine.Base
	continues int
}

func (c *continueCapture) OnEnter() {}
func (c *continueCapture) OnExit()  {}

func (c *continueCapture) HandleEvent(ev engine.Event) bool {
	if _, ok := ev.(ContinueEvent); ok {
		c.continues++
		return true
	}
	return false
}

// guessingFixture starts the sequencer (under a capture parent) over one
// answered question per player.
func guessingFixture(t *testing.T, n int) (*engine.Runner, *fakeScheduler, *continueCapture, []*Player, []*TargetedQuestion) {
	t.Helper()

	players := makePlayers(n)
	ctrl := newFakeController(players)

	questions := make([]*TargetedQuestion, 0, n)
	for i, target := range players {
		q := &TargetedQuestion{
			Question: &Question{
				OptionA: Option{Author: players[(i+1)%n], Text: "option a"},
				OptionB: Option{Author: players[(i+2)%n], Text: "option b"},
			},
			Target: target,
		}
		require.True(t, q.Answer(ChoiceA))
		questions = append(questions, q)
	}

	sched := &fakeScheduler{}
	runner := engine.NewRunner(sched, testLogger())
	parent := &continueCapture{}
	runner.Start(parent)
	parent.Push(NewGuessingMasterPhase(questions, ctrl, testRules(), testLogger()))
	return runner, sched, parent, players, questions
}

func TestGuessingPromptsEveryPlayer(t *testing.T) {
	_, _, _, players, questions := guessingFixture(t, 3)

	for _, p := range players {
		ev, ok := conn(p).lastOfType(OutPromptGuess)
		require.True(t, ok, "%s was not prompted", p.Name)

		payload := ev.Payload.(*GuessPromptPayload)
		assert.Equal(t, questions[0].Target.Name, payload.Question.TargetName)
		assert.Equal(t, "option a", payload.Question.OptionA)
		assert.Empty(t, payload.Selected)
	}
}

func TestGuessingLastWriteWins(t *testing.T) {
	runner, sched, _, players, _ := guessingFixture(t, 3)
	guesser := players[1]

	require.True(t, runner.Dispatch(SelectGuessEvent{Player: guesser, Choice: ChoiceB}))
	require.True(t, runner.Dispatch(SelectGuessEvent{Player: guesser, Choice: ChoiceA}))

	sched.fireAll() // deadline settles the question

	ev, ok := conn(guesser).lastOfType(OutDisplayResults)
	require.True(t, ok)
	for _, r := range ev.Payload.(*ResultsPayload).Results {
		if r.PlayerID == guesser.ID {
			assert.True(t, r.Correct, "the revised guess counts")
		}
	}
}

func TestGuessingRejectsInvalidChoice(t *testing.T) {
	runner, _, _, players, _ := guessingFixture(t, 3)

	assert.False(t, runner.Dispatch(SelectGuessEvent{Player: players[1], Choice: Choice("nope")}))
}

func TestScoringAwardsCorrectGuessesOnly(t *testing.T) {
	runner, sched, _, players, _ := guessingFixture(t, 3)

	// players[0] (the target) and players[1] guess right, players[2] wrong.
	require.True(t, runner.Dispatch(SelectGuessEvent{Player: players[0], Choice: ChoiceA}))
	require.True(t, runner.Dispatch(SelectGuessEvent{Player: players[1], Choice: ChoiceA}))
	require.True(t, runner.Dispatch(SelectGuessEvent{Player: players[2], Choice: ChoiceB}))

	sched.fireAll()

	ev, ok := conn(players[0]).lastOfType(OutDisplayResults)
	require.True(t, ok)
	results := ev.Payload.(*ResultsPayload).Results
	require.Len(t, results, 3)

	scoreByID := make(map[string]int)
	correctByID := make(map[string]bool)
	for _, r := range results {
		scoreByID[r.PlayerID] = r.TotalScore
		correctByID[r.PlayerID] = r.Correct
	}
	assert.Equal(t, 1, scoreByID[players[0].ID])
	assert.Equal(t, 1, scoreByID[players[1].ID])
	assert.Equal(t, 0, scoreByID[players[2].ID])
	assert.True(t, correctByID[players[0].ID], "targets may guess on their own question")
	assert.False(t, correctByID[players[2].ID])
}

func TestScoringNoPointsForUnansweredQuestion(t *testing.T) {
	players := makePlayers(3)
	ctrl := newFakeController(players)

	q := &TargetedQuestion{
		Question: &Question{OptionA: Option{Text: "a"}, OptionB: Option{Text: "b"}},
		Target:   players[0],
	}

	sched := &fakeScheduler{}
	runner := engine.NewRunner(sched, testLogger())
	parent := &continueCapture{}
	runner.Start(parent)
	parent.Push(NewGuessingMasterPhase([]*TargetedQuestion{q}, ctrl, testRules(), testLogger()))

	require.True(t, runner.Dispatch(SelectGuessEvent{Player: players[1], Choice: ChoiceA}))
	sched.fireAll()

	ev, ok := conn(players[1]).lastOfType(OutDisplayResults)
	require.True(t, ok)
	for _, r := range ev.Payload.(*ResultsPayload).Results {
		assert.False(t, r.Correct)
		assert.Equal(t, 0, r.TotalScore)
	}
}

func TestSequencerWalksQueueThenContinuesParent(t *testing.T) {
	_, sched, parent, players, questions := guessingFixture(t, 3)

	for range questions {
		sched.fireAll() // guessing deadline -> scoring
		sched.fireAll() // results pause -> next question
	}

	assert.Equal(t, 1, parent.continues, "sequencer reports once, after the last question")
	assert.Equal(t, len(questions), conn(players[0]).countOfType(OutPromptGuess))
	assert.Equal(t, len(questions), conn(players[0]).countOfType(OutDisplayResults))
}

func TestSequencerWithEmptyQueueContinuesImmediately(t *testing.T) {
	players := makePlayers(3)

	sched := &fakeScheduler{}
	runner := engine.NewRunner(sched, testLogger())
	parent := &continueCapture{}
	runner.Start(parent)
	parent.Push(NewGuessingMasterPhase(nil, newFakeController(players), testRules(), testLogger()))

	assert.Equal(t, 1, parent.continues)
	assert.Equal(t, 2, runner.Depth(), "the sequencer stays put; the parent decides what happens next")
}
