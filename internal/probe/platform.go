package probe

import (
	"runtime"
	"strconv"
)

// Command construction for ping and traceroute differs by platform family.
// The strategy is selected once at package init; building an argument list
// never re-inspects the platform.

type pingCommand struct {
	binary    string
	countFlag string
	// perPacketTimeout is the flag for a per-packet timeout; empty when the
	// platform's ping has none we can rely on.
	perPacketTimeout string
}

type tracerouteCommand struct {
	binary      string
	maxHopsFlag string
	extraArgs   []string
}

var (
	pingCmd       = pingCommandFor(runtime.GOOS)
	tracerouteCmd = tracerouteCommandFor(runtime.GOOS)
)

func pingCommandFor(goos string) pingCommand {
	switch goos {
	case "windows":
		return pingCommand{binary: "ping", countFlag: "-n"}
	default:
		return pingCommand{binary: "ping", countFlag: "-c", perPacketTimeout: "-W"}
	}
}

func tracerouteCommandFor(goos string) tracerouteCommand {
	switch goos {
	case "windows":
		return tracerouteCommand{binary: "tracert", maxHopsFlag: "-h"}
	default:
		// One query per hop and no reverse DNS, to keep runs fast.
		return tracerouteCommand{
			binary:      "traceroute",
			maxHopsFlag: "-m",
			extraArgs:   []string{"-q", "1", "-n"},
		}
	}
}

func (c pingCommand) args(count, timeoutSec int, target string) []string {
	args := []string{c.countFlag, strconv.Itoa(count)}
	if c.perPacketTimeout != "" && timeoutSec > 0 {
		args = append(args, c.perPacketTimeout, strconv.Itoa(timeoutSec))
	}
	return append(args, target)
}

func (c tracerouteCommand) args(maxHops int, target string) []string {
	args := []string{c.maxHopsFlag, strconv.Itoa(maxHops)}
	args = append(args, c.extraArgs...)
	return append(args, target)
}
