package game

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"wouldyourather/internal/engine"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRules() Rules {
	return DefaultRules()
}

// fakeConn records every outbound event sent to one player.
type fakeConn struct {
	events []Outbound
}

func (c *fakeConn) Send(ev Outbound) error {
	c.events = append(c.events, ev)
	return nil
}

// last returns the most recent event, failing loudly when there is none.
func (c *fakeConn) last() Outbound {
	if len(c.events) == 0 {
		panic("no events recorded")
	}
	return c.events[len(c.events)-1]
}

// lastOfType returns the most recent event of the given type.
func (c *fakeConn) lastOfType(t OutboundType) (Outbound, bool) {
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Type == t {
			return c.events[i], true
		}
	}
	return Outbound{}, false
}

func (c *fakeConn) countOfType(t OutboundType) int {
	n := 0
	for _, ev := range c.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (c *fakeConn) reset() {
	c.events = nil
}

// fakeTimer and fakeScheduler let tests fire deadlines deterministically.
type fakeTimer struct {
	delay     time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

func (t *fakeTimer) Cancel() { t.cancelled = true }

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) Schedule(d time.Duration, fn func()) engine.Timer {
	t := &fakeTimer{delay: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// fireAll fires every deadline armed before the call. Timers cancelled
// while firing (phases exiting) stay silent; timers armed while firing are
// kept for the next call.
func (s *fakeScheduler) fireAll() {
	armed := s.timers
	s.timers = nil
	for _, t := range armed {
		if t.cancelled || t.fired {
			continue
		}
		t.fired = true
		t.fn()
	}
}

// armedCount returns the number of live deadlines.
func (s *fakeScheduler) armedCount() int {
	n := 0
	for _, t := range s.timers {
		if !t.cancelled && !t.fired {
			n++
		}
	}
	return n
}

// fakeController stands in for the Playing phase in single-phase tests.
type fakeController struct {
	players []*Player
	scores  *ScoreTable
}

func newFakeController(players []*Player) *fakeController {
	scores := NewScoreTable()
	for _, p := range players {
		scores.Register(p)
	}
	return &fakeController{players: players, scores: scores}
}

func (c *fakeController) Players() []*Player {
	players := make([]*Player, len(c.players))
	copy(players, c.players)
	return players
}

func (c *fakeController) Scores() *ScoreTable { return c.scores }

// conn returns the recording connection behind a player built by makePlayers.
func conn(p *Player) *fakeConn {
	return p.conn.(*fakeConn)
}

// harness wires a runner, players and fake connections into a lobby.
type harness struct {
	runner *engine.Runner
	sched  *fakeScheduler
	conns  []*fakeConn
	player []*Player
}

func newHarness(n int, rules Rules, seed int64) *harness {
	h := &harness{sched: &fakeScheduler{}}
	h.runner = engine.NewRunner(h.sched, testLogger())

	rng := rand.New(rand.NewSource(seed))
	h.runner.Start(NewLobbyingPhase(rules, rng, testLogger(), nil))

	for i := 0; i < n; i++ {
		conn := &fakeConn{}
		p := NewPlayer(fmt.Sprintf("id-%d", i), fmt.Sprintf("player-%d", i), i == 0, conn)
		h.conns = append(h.conns, conn)
		h.player = append(h.player, p)
		h.runner.Dispatch(JoinEvent{Player: p})
	}
	return h
}

func (h *harness) start() {
	h.runner.Dispatch(StartGameEvent{Player: h.player[0]})
}

func (h *harness) resetConns() {
	for _, c := range h.conns {
		c.reset()
	}
}

func makePlayers(n int) []*Player {
	players := make([]*Player, 0, n)
	for i := 0; i < n; i++ {
		players = append(players, NewPlayer(fmt.Sprintf("id-%d", i), fmt.Sprintf("player-%d", i), i == 0, &fakeConn{}))
	}
	return players
}
