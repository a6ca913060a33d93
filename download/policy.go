package download

import (
	"fmt"
	"strings"
)

// Policy selects how Download waits for its sessions
type Policy int

const (
	// NoWait starts every session and returns at once. The caller cannot
	// observe completion; sessions keep running in the background.
	NoWait Policy = iota
	// Barrier counts terminal transitions down to zero and returns then.
	Barrier
	// JoinAll runs each session as a unit of an errgroup and joins them all.
	JoinAll
)

func (p Policy) String() string {
	switch p {
	case NoWait:
		return "nowait"
	case Barrier:
		return "barrier"
	case JoinAll:
		return "joinall"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps "nowait", "barrier" or "joinall" (any case) to a Policy
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nowait", "no-wait", "none":
		return NoWait, nil
	case "barrier", "countdown":
		return Barrier, nil
	case "joinall", "join-all", "join":
		return JoinAll, nil
	default:
		return 0, fmt.Errorf("unknown completion policy %q", s)
	}
}
