// Package display runs a sealed device as a bus service: control messages
// set rotation, brightness and fill colour, and touches are polled and
// published as events. After Start the service goroutine owns the device.
package display

import (
	"context"
	"image/color"
	"time"

	"displaycode-go/bus"
	"displaycode-go/device"
	"displaycode-go/errcode"
	"displaycode-go/x/logx"
	"displaycode-go/x/timex"
)

var (
	TopicCtlRotation   = bus.T("display", "ctl", "rotation")
	TopicCtlBrightness = bus.T("display", "ctl", "brightness")
	TopicCtlFill       = bus.T("display", "ctl", "fill")
	topicCtlAll        = bus.T("display", "ctl", "+")

	TopicBrightness = bus.T("display", "brightness")
	TopicTouch      = bus.T("display", "touch")
	TopicError      = bus.T("display", "error")
)

// Config tunes the service loop.
type Config struct {
	PollHz    uint32        // touch polling rate; 0 disables polling
	Fade      time.Duration // brightness ramp duration; 0 snaps
	FadeSteps uint16
}

func DefaultConfig() Config {
	return Config{PollHz: 50, Fade: 0, FadeSteps: 16}
}

// TouchEvent is published on TopicTouch. A release has Z == 0.
type TouchEvent struct {
	X, Y, Z int
	AtMs    int64
}

// Brightness is the payload of a brightness control message when a fade
// duration other than the configured one is wanted.
type Brightness struct {
	Level uint8
	Fade  time.Duration
}

type Service struct {
	dev *device.Device
	cfg Config

	touching bool
}

func New(dev *device.Device, cfg Config) *Service {
	return &Service{dev: dev, cfg: cfg}
}

// Start launches the service loop in a goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	sub := conn.Subscribe(topicCtlAll)
	go s.serviceLoop(ctx, conn, sub)
	return nil
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, sub *bus.Subscription) {
	defer conn.Unsubscribe(sub)

	var poll <-chan time.Time
	if p := timex.PeriodFromHz(s.cfg.PollHz); p > 0 {
		tick := time.NewTicker(p)
		defer tick.Stop()
		poll = tick.C
	}
	conn.Publish(&bus.Message{Topic: TopicBrightness, Payload: int(s.dev.Light().Brightness()), Retained: true})

	for {
		select {
		case <-ctx.Done():
			logx.Debug(logx.ComponentDisplay, "display service stopping")
			return
		case <-poll:
			s.pollTouch(conn)
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			if err := s.handle(ctx, conn, msg); err != nil {
				logx.Warn(logx.ComponentDisplay, "control failed", "topic", msg.Topic.String(), "err", err)
				conn.Publish(&bus.Message{Topic: TopicError, Payload: err.Error()})
			}
		}
	}
}

func (s *Service) handle(ctx context.Context, conn *bus.Connection, msg *bus.Message) error {
	switch {
	case bus.Match(TopicCtlRotation, msg.Topic):
		r, ok := asInt(msg.Payload)
		if !ok {
			return badPayload(msg)
		}
		return s.dev.SetRotation(r)

	case bus.Match(TopicCtlBrightness, msg.Topic):
		b := Brightness{Fade: s.cfg.Fade}
		switch p := msg.Payload.(type) {
		case Brightness:
			b = p
		default:
			n, ok := asInt(p)
			if !ok || n < 0 || n > 255 {
				return badPayload(msg)
			}
			b.Level = uint8(n)
		}
		s.dev.Light().FadeTo(b.Level, b.Fade, s.cfg.FadeSteps, func(d time.Duration) bool {
			select {
			case <-ctx.Done():
				return false
			case <-time.After(d):
				return true
			}
		})
		conn.Publish(&bus.Message{Topic: TopicBrightness, Payload: int(s.dev.Light().Brightness()), Retained: true})
		return nil

	case bus.Match(TopicCtlFill, msg.Topic):
		c, ok := msg.Payload.(color.RGBA)
		if !ok {
			return badPayload(msg)
		}
		w, h := s.dev.Size()
		return s.dev.FillRect(0, 0, w, h, c)
	}
	return badPayload(msg)
}

// pollTouch publishes every reading while touched and one release after.
func (s *Service) pollTouch(conn *bus.Connection) {
	p := s.dev.ReadTouchPoint()
	if p.Z == 0 && !s.touching {
		return
	}
	s.touching = p.Z > 0
	conn.Publish(&bus.Message{Topic: TopicTouch, Payload: TouchEvent{X: p.X, Y: p.Y, Z: p.Z, AtMs: timex.NowMs()}})
}

// asInt accepts Go integers and the float64 numbers JSON decoding yields.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func badPayload(msg *bus.Message) error {
	return errcode.New(errcode.InvalidParams, "display."+msg.Topic.String(), "unexpected payload")
}
