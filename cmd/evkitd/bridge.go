package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mvoss/evkit/event"
	"github.com/mvoss/evkit/events"
	"github.com/mvoss/evkit/logsink"
	"github.com/mvoss/evkit/tick"
	"github.com/mvoss/evkit/wire"
)

// runBridge drives the whole substrate on one goroutine, which is all a
// Channel supports: publish ticks into one end of a socketpair, drain
// the other end, and post what arrives onto a local channel where the
// scheduler and the log sink are subscribed.
func runBridge(cfg Config) error {
	ch := event.NewChannel()
	session := uuid.NewString()

	console := logsink.Console(os.Stdout).With().Str("session", session).Logger()
	logsink.Attach(ch, console)
	if cfg.LogDir != "" {
		zl, f, err := logsink.OpenFile(cfg.LogDir)
		if err != nil {
			return err
		}
		defer f.Close()
		logsink.Attach(ch, zl.With().Str("session", session).Logger())
	}
	log := logsink.New(ch)

	sched := tick.NewScheduler()
	sched.Run(ch)
	sched.Add(tick.MakeTV(tick.Sec, tick.Forever), func(id tick.TaskID, tv tick.TV) {
		log.Info(fmt.Sprintf("heartbeat: task %d fired %d times", id, tv.Spent))
	})

	near, far, err := wire.Socketpair()
	if err != nil {
		return err
	}
	defer near.Close()
	defer far.Close()

	log.Info(fmt.Sprintf("bridge up: %d ticks at %dms", cfg.Ticks, cfg.TickIntervalMS))

	interval := time.Duration(cfg.TickIntervalMS) * time.Millisecond
	for n := int64(0); n < cfg.Ticks; n++ {
		if err := wire.SendPacket(near, events.TickEvent{Ticks: n}); err != nil {
			return fmt.Errorf("send tick %d: %w", n, err)
		}
		if err := pump(far, ch); err != nil {
			return err
		}
		time.Sleep(interval)
	}
	// One last drain for the final tick.
	if err := pump(far, ch); err != nil {
		return err
	}

	log.Info("bridge done")
	return nil
}

// pump posts every packet currently readable on c onto ch.
func pump(c wire.Conn, ch *event.Channel) error {
	for {
		evid, payload, err := wire.RecvPacket(c)
		if errors.Is(err, wire.ErrNoData) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("recv: %w", err)
		}
		err = ch.PostBuffer(evid, payload)
		payload.Release()
		if err != nil {
			return fmt.Errorf("post: %w", err)
		}
	}
}
