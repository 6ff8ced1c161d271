package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"adguard-controller/internal/command"
	"adguard-controller/internal/observability"
)

// BlockingClient is the appliance surface the dispatcher needs.
// It enables unit testing without a live AdGuard Home instance.
type BlockingClient interface {
	Login(ctx context.Context) (string, error)
	SetBlocking(ctx context.Context, token string, enabled bool) error
}

// Outcome is the result of one dispatched command. The HTTP adapter
// serializes it into the response; the MQTT path only logs it.
type Outcome struct {
	Success    bool
	Message    string
	StatusCode int
}

// Dispatcher bridges commands to the appliance client regardless of
// which channel produced them.
type Dispatcher struct {
	client BlockingClient
}

func New(client BlockingClient) *Dispatcher {
	return &Dispatcher{client: client}
}

// Handle runs the full login + update sequence for one command. Every
// command performs its own login and the session cookie is used exactly
// once, so concurrent Handle calls never share session state.
func (d *Dispatcher) Handle(ctx context.Context, cmd command.Command) Outcome {
	verb, verbed := "enable", "enabled"
	if cmd == command.DisableBlocking {
		verb, verbed = "disable", "disabled"
	}

	token, err := d.client.Login(ctx)
	if err != nil {
		slog.Error("login failed", "command", cmd.String(), "error", err)
		return Outcome{
			Success:    false,
			Message:    fmt.Sprintf("Failed to login to AdGuard Home: %v", err),
			StatusCode: http.StatusUnauthorized,
		}
	}

	if err := d.client.SetBlocking(ctx, token, cmd == command.EnableBlocking); err != nil {
		slog.Error("blocked services update failed", "command", cmd.String(), "error", err)
		return Outcome{
			Success:    false,
			Message:    fmt.Sprintf("Failed to %s YouTube blocking: %v", verb, err),
			StatusCode: http.StatusInternalServerError,
		}
	}

	msg := fmt.Sprintf("YouTube blocking %s successfully", verbed)
	slog.Info(msg)
	return Outcome{Success: true, Message: msg, StatusCode: http.StatusOK}
}

// Run drains the shared command queue strictly in order until ctx is
// cancelled. Outcomes are logged and dropped: the MQTT trigger gets no
// acknowledgment, and a failed command never stops consumption of the
// next one.
func (d *Dispatcher) Run(ctx context.Context, cmds <-chan command.Command) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-cmds:
			out := d.Handle(ctx, cmd)
			observability.CommandProcessed("mqtt", cmd.String(), out.Success)
			if !out.Success {
				slog.Error("mqtt command failed", "command", cmd.String(), "message", out.Message)
			}
		}
	}
}
