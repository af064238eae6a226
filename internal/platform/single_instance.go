package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

// ErrUnknownCommand is returned for command names the running instance does not accept.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a remote control request forwarded to the running instance.
type Command string

const (
	CommandStart Command = "start"
	CommandPause Command = "pause"
	CommandReset Command = "reset"
)

const dialTimeout = 2 * time.Second

// ParseCommand maps a command-line word to a Command.
func ParseCommand(name string) (Command, error) {
	switch command := Command(strings.ToLower(strings.TrimSpace(name))); command {
	case CommandStart, CommandPause, CommandReset:
		return command, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
}

// InstanceGuard holds the single-instance lock and receives commands from later invocations.
type InstanceGuard struct {
	listener net.Listener
	address  string
	done     chan struct{}
}

// AcquireSingleInstance attempts to bind a deterministic localhost port.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := addressFor(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener, address: address, done: make(chan struct{})}, nil
}

// Serve accepts command connections until the guard is released. Each line is one command.
func (guard *InstanceGuard) Serve(handler func(Command)) {
	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			select {
			case <-guard.done:
			default:
				log.Warn().Err(err).Msg("Instance listener stopped")
			}
			return
		}
		guard.handle(conn, handler)
	}
}

func (guard *InstanceGuard) handle(conn net.Conn, handler func(Command)) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(dialTimeout))

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		command, err := ParseCommand(scanner.Text())
		if err != nil {
			log.Warn().Err(err).Msg("Ignoring remote command")
			continue
		}
		log.Info().Str("command", string(command)).Msg("Remote command received")
		if handler != nil {
			handler(command)
		}
	}
}

// Release frees the single instance lock and stops Serve.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	select {
	case <-guard.done:
		return nil
	default:
		close(guard.done)
	}
	return guard.listener.Close()
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

// Send forwards command to the instance already running under appName.
func Send(appName string, command Command) error {
	conn, err := net.DialTimeout("tcp", addressFor(appName), dialTimeout)
	if err != nil {
		return fmt.Errorf("connect to running instance: %w", err)
	}
	defer conn.Close()

	if _, err := fmt.Fprintf(conn, "%s\n", command); err != nil {
		return fmt.Errorf("send %s: %w", command, err)
	}
	return nil
}

func addressFor(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
