package mqtt

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"adguard-controller/internal/command"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Topic    string

	// ReconnectDelay is the fixed pause between broker connect
	// attempts. The listener retries forever; there is no circuit
	// breaker by design.
	ReconnectDelay time.Duration
}

// Listener subscribes to the command topic over TLS and feeds decoded
// commands into the shared queue. A full queue blocks paho's ordered
// dispatch loop, stalling message consumption rather than silently
// dropping a decoded command.
type Listener struct {
	cfg      Config
	commands chan<- command.Command
}

func NewListener(cfg Config, commands chan<- command.Command) *Listener {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	return &Listener{cfg: cfg, commands: commands}
}

// HandleMessage decodes one raw payload and enqueues the command.
// Unknown payloads are logged and dropped; a bad message never kills
// the subscription.
func (l *Listener) HandleMessage(payload []byte) {
	cmd, ok := command.Parse(payload)
	if !ok {
		slog.Warn("unknown mqtt command", "payload", string(payload))
		return
	}
	slog.Info("mqtt command received", "command", cmd.String())
	l.commands <- cmd
}

// Run connects to the broker and keeps the subscription alive until
// ctx is cancelled. A failed connect puts the listener in a
// reconnecting state: log, wait the configured delay, try again,
// forever. Once connected, paho's auto-reconnect takes over and the
// OnConnect hook restores the subscription after every reconnect.
func (l *Listener) Run(ctx context.Context) {
	for {
		cli, err := l.connect()
		if err == nil {
			<-ctx.Done()
			cli.Disconnect(1000)
			return
		}
		slog.Error("mqtt connect failed", "error", err, "retry_in", l.cfg.ReconnectDelay)
		select {
		case <-ctx.Done():
			return
		case <-time.After(l.cfg.ReconnectDelay):
		}
	}
}

func (l *Listener) connect() (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("ssl://%s:%d", l.cfg.Host, l.cfg.Port))
	opts.SetClientID("adguard-controller-" + uuid.NewString())
	opts.SetUsername(l.cfg.Username)
	opts.SetPassword(l.cfg.Password)
	opts.SetKeepAlive(10 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetTLSConfig(&tls.Config{})

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		slog.Warn("mqtt connection lost", "error", err)
	}
	opts.OnConnect = func(c mqtt.Client) {
		// QoS 0: at-most-once, matching the fire-and-forget trigger
		// contract.
		tok := c.Subscribe(l.cfg.Topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			l.HandleMessage(msg.Payload())
		})
		if tok.Wait() && tok.Error() != nil {
			slog.Error("mqtt subscribe failed", "topic", l.cfg.Topic, "error", tok.Error())
			return
		}
		slog.Info("mqtt subscribed", "topic", l.cfg.Topic)
	}

	cli := mqtt.NewClient(opts)
	tok := cli.Connect()
	if ok := tok.WaitTimeout(15 * time.Second); !ok {
		cli.Disconnect(0)
		return nil, errors.New("connect timed out")
	}
	if err := tok.Error(); err != nil {
		return nil, err
	}
	return cli, nil
}
