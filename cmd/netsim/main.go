// Command netsim dispatches one of the sample scenarios against the
// layered simulator and runs it to completion.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/soypat/netsim"
	"github.com/soypat/netsim/internal/tracelog"
	"github.com/soypat/netsim/scenario"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Println("success")
}

func run() error {
	var (
		flagScenario  = "tcp"
		flagVerbosity = "byte"
		flagTicks     = 2000
	)
	flag.StringVar(&flagScenario, "scenario", flagScenario,
		"Scenario to run: repeater|bridge|ipecho|icmp|arp|routed|tcp.")
	flag.StringVar(&flagVerbosity, "v", flagVerbosity,
		"Trace verbosity: byte|frame|transport.")
	flag.IntVar(&flagTicks, "ticks", flagTicks, "Maximum tick budget for the run.")
	flag.Parse()

	v, err := parseVerbosity(flagVerbosity)
	if err != nil {
		flag.Usage()
		return err
	}
	netsim.SetVerbosity(v)

	level := slog.LevelDebug
	if v == netsim.VerbosityByte {
		level = tracelog.LevelTrace
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	build, ok := scenarios[flagScenario]
	if !ok {
		flag.Usage()
		return fmt.Errorf("netsim: unknown scenario %q", flagScenario)
	}
	result := build(log)
	return result.Net.Run(flagTicks)
}

var scenarios = map[string]func(*slog.Logger) scenario.Result{
	"repeater": scenario.Repeater,
	"bridge":   scenario.Bridge,
	"ipecho":   scenario.IPEcho,
	"icmp":     scenario.ICMPUnreachable,
	"arp":      scenario.ARPResolve,
	"routed":   scenario.RoutedForward,
	"tcp":      scenario.TCPRoundTrip,
}

func parseVerbosity(s string) (netsim.Verbosity, error) {
	switch s {
	case "byte":
		return netsim.VerbosityByte, nil
	case "frame":
		return netsim.VerbosityFrame, nil
	case "transport":
		return netsim.VerbosityTransport, nil
	default:
		return 0, fmt.Errorf("netsim: unknown verbosity %q", s)
	}
}
