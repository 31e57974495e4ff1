package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"math/rand"
	"net"
	"strings"
	"time"

	goirc "github.com/fluffle/goirc/client"
	"github.com/mtharp/twentyone/config"
	"github.com/mtharp/twentyone/gann"
	"github.com/mtharp/twentyone/table"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"
)

const reconnectDelay = 30 * time.Second

func main() {
	v, err := config.Load()
	if err != nil {
		log.Fatalln("error:", err)
	}
	if v.GetString("irc.channel") == "" {
		log.Fatalln("error: irc.channel is not set")
	}
	rules, err := config.Rules(v)
	if err != nil {
		log.Fatalln("error:", err)
	}
	ts, err := tokenSource(v)
	if err != nil {
		log.Fatalln("error:", err)
	}
	var ai table.Actor
	nets, err := gann.NetsFromDir(v.GetString("nets.dir"), v.GetInt("play.consensus"))
	if err != nil {
		log.Fatalln("error:", err)
	} else if len(nets) > 0 {
		panel, err := gann.NewConsensus(nets)
		if err != nil {
			log.Fatalln("error:", err)
		}
		ai = panel
	} else {
		log.Printf("warning: no saved networks, !ai is disabled")
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for {
		if err := runIRC(v, ts, rules, ai, rng); err != nil {
			log.Printf("error: %s", err)
		}
		time.Sleep(reconnectDelay)
	}
}

func runIRC(v *viper.Viper, ts oauth2.TokenSource, rules table.Rules, ai table.Actor, rng *rand.Rand) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t, err := ts.Token()
	if err != nil {
		return fmt.Errorf("can't connect to IRC: %w", err)
	}
	nick := v.GetString("irc.nick")
	channel := v.GetString("irc.channel")
	ic := goirc.NewConfig(nick, nick, "twentyone blackjack dealer")
	ic.Server = v.GetString("irc.server")
	if v.GetBool("irc.ssl") {
		host, _, _ := net.SplitHostPort(ic.Server)
		ic.SSL = true
		ic.SSLConfig = &tls.Config{ServerName: host}
	}
	ic.Pass = "oauth:" + t.AccessToken

	cl := goirc.Client(ic)
	bot := NewBot(rules, ai, func(msg string) { cl.Privmsg(channel, msg) }, rng)
	cl.HandleFunc(goirc.CONNECTED, func(conn *goirc.Conn, line *goirc.Line) {
		log.Println("connected")
		conn.Join(channel)
	})
	cl.HandleFunc(goirc.DISCONNECTED, func(conn *goirc.Conn, line *goirc.Line) {
		cancel()
	})
	cl.HandleFunc(goirc.PRIVMSG, func(conn *goirc.Conn, line *goirc.Line) {
		if !strings.EqualFold(line.Target(), channel) || strings.EqualFold(line.Nick, nick) {
			return
		}
		bot.Handle(line.Nick, line.Text())
	})

	log.Println("attempting connection to", ic.Server)
	if err := cl.Connect(); err != nil {
		return fmt.Errorf("can't connect to IRC: %w", err)
	}
	<-ctx.Done()
	log.Printf("warning: IRC disconnected")
	return nil
}
