package main

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/mtharp/twentyone/table"
)

const answerTimeout = 2 * time.Minute

var (
	errQuit    = errors.New("player left the table")
	errTimeout = errors.New("no answer in time")
)

// Bot runs blackjack in a chat channel. One human plays at a time; banks are
// kept per nick for as long as the bot runs.
type Bot struct {
	Rules   table.Rules
	// AI plays !ai rounds, which are unavailable when nil.
	AI      table.Actor
	Send    func(msg string)
	Timeout time.Duration

	mu      sync.Mutex
	rng     *rand.Rand
	players map[string]*table.Player
	nick    string
	answers chan string
}

func NewBot(rules table.Rules, ai table.Actor, send func(string), rng *rand.Rand) *Bot {
	return &Bot{
		Rules:   rules,
		AI:      ai,
		Send:    send,
		Timeout: answerTimeout,
		rng:     rng,
		players: make(map[string]*table.Player),
	}
}

// Handle processes one channel message.
func (b *Bot) Handle(nick, text string) {
	text = strings.TrimSpace(text)
	switch strings.ToLower(text) {
	case "!deal":
		b.startSession(nick)
		return
	case "!ai":
		b.playAI()
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.answers == nil || !strings.EqualFold(nick, b.nick) {
		return
	}
	select {
	case b.answers <- text:
	default:
	}
}

func (b *Bot) startSession(nick string) {
	b.mu.Lock()
	if b.answers != nil {
		busy := b.nick
		b.mu.Unlock()
		b.Send(fmt.Sprintf("%s: %s is playing, wait for the round to finish", nick, busy))
		return
	}
	b.nick = nick
	b.answers = make(chan string, 1)
	p := b.players[strings.ToLower(nick)]
	if p == nil {
		p = table.NewPlayer(nick, b.Rules.InitialBank, nil)
		b.players[strings.ToLower(nick)] = p
	}
	var note string
	if p.Bank <= b.Rules.MinBet {
		p.Reset()
		note = fmt.Sprintf("%s is broke, bank restocked to $%.2f", nick, p.Bank)
	}
	p.Actor = &table.Interactive{
		Name:     nick,
		Prompter: &chatPrompter{bot: b, nick: nick, answers: b.answers},
	}
	rng := b.childRNG()
	b.mu.Unlock()
	if note != "" {
		b.Send(note)
	}
	go b.runSession(p, rng)
}

func (b *Bot) runSession(p *table.Player, rng *rand.Rand) {
	defer func() {
		b.mu.Lock()
		b.nick = ""
		b.answers = nil
		b.mu.Unlock()
	}()
	r := table.NewRound(p, b.Rules, rng)
	if _, err := r.Play(); err != nil {
		p.Hand.Reset()
		b.Send(fmt.Sprintf("%s: round abandoned (%s), bet lost", p, err))
		return
	}
	b.Send(r.Summary())
}

func (b *Bot) playAI() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.AI == nil {
		b.Send("no trained network loaded")
		return
	}
	p := table.NewPlayer("AI", b.Rules.InitialBank, b.AI)
	r := table.NewRound(p, b.Rules, b.childRNG())
	if _, err := r.Play(); err != nil {
		b.Send(fmt.Sprintf("AI round failed: %s", err))
		return
	}
	b.Send(fmt.Sprintf("%s (%s)", r.Summary(), r.Choice))
}

// childRNG must be called with mu held.
func (b *Bot) childRNG() *rand.Rand {
	return rand.New(rand.NewSource(b.rng.Int63()))
}

// chatPrompter asks questions in the channel and takes the next line from
// one nick as the answer.
type chatPrompter struct {
	bot     *Bot
	nick    string
	answers <-chan string
}

func (c *chatPrompter) Prompt(question string) (string, error) {
	c.bot.Send(c.nick + ": " + question)
	t := time.NewTimer(c.bot.Timeout)
	defer t.Stop()
	select {
	case line := <-c.answers:
		if strings.EqualFold(line, "!quit") {
			return "", errQuit
		}
		return line, nil
	case <-t.C:
		return "", errTimeout
	}
}
