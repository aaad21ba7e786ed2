package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/ScreenShare/internal/adapters/input"
	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
)

type inputSender interface {
	SendInput(ctx context.Context, room domain.RoomID, ev input.Event) error
}

// console turns stdin lines into input events for the latest connected session.
type console struct {
	sender inputSender
	in     io.Reader
}

func newConsole(sender inputSender, in io.Reader) *console {
	return &console{sender: sender, in: in}
}

func (c *console) run(ctx context.Context, connected <-chan core.SessionInfo) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	var room domain.RoomID
	for {
		select {
		case <-ctx.Done():
			return
		case info := <-connected:
			room = info.RoomID
		case line, ok := <-lines:
			if !ok {
				return
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			ev, err := parseCommand(line)
			if err != nil {
				log.Warn().Err(err).Msg("input")
				continue
			}
			if room == "" {
				log.Warn().Msg("no connected session yet")
				continue
			}
			sendCtx, cancel := context.WithTimeout(ctx, time.Second)
			err = c.sender.SendInput(sendCtx, room, ev)
			cancel()
			if err != nil {
				log.Warn().Err(err).Str("room_id", string(room)).Msg("send input")
			}
		}
	}
}

func parseCommand(line string) (input.Event, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return input.Event{}, fmt.Errorf("empty command")
	}
	switch cmd := fields[0]; cmd {
	case "move", "down", "up":
		if len(fields) != 3 {
			return input.Event{}, fmt.Errorf("%s needs <x> <y>", cmd)
		}
		x, err := strconv.Atoi(fields[1])
		if err != nil {
			return input.Event{}, fmt.Errorf("x: %w", err)
		}
		y, err := strconv.Atoi(fields[2])
		if err != nil {
			return input.Event{}, fmt.Errorf("y: %w", err)
		}
		if cmd == "move" {
			return input.PointerMove(x, y), nil
		}
		return input.PointerButton(x, y, cmd == "down"), nil
	case "key", "keyup":
		if len(fields) != 2 {
			return input.Event{}, fmt.Errorf("%s needs <name>", cmd)
		}
		return input.Key(fields[1], cmd == "key"), nil
	default:
		return input.Event{}, fmt.Errorf("unknown command %q", cmd)
	}
}
