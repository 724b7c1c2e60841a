package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

const (
	ModeHub    = "tracking-hub"
	ModeNotify = "notification-subscriber"
)

// isKnownMode checks if the provided mode name is known.
func isKnownMode(s string) (string, bool) {
	switch s {
	case ModeHub, "hub":
		return ModeHub, true
	case ModeNotify, "notify":
		return ModeNotify, true
	default:
		return "", false
	}
}

// ParseMode supports:
//
//	--mode=<value>
//	<value> (subcommand shorthand), e.g., `tracking-hub --port=3000`
func ParseMode(args []string) (string, []string, error) {
	var mode string
	var out []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "--mode=") {
			mode = strings.TrimPrefix(arg, "--mode=")
			continue
		}

		if mode == "" {
			if m, ok := isKnownMode(arg); ok {
				mode = m
				continue
			}
		}
		out = append(out, arg)
	}

	if mode == "" {
		return "", out, nil
	}

	if m, ok := isKnownMode(mode); ok {
		mode = m
	}

	return mode, out, nil
}

// PrintUsage prints the usage information with examples.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, "\033[36m") // switch the color to cyan

	fmt.Fprintln(w, `Usage:
  ./tracking-hub --mode=<service> [flags]

Services (modes):
  tracking-hub               WebSocket hub + order placement API
  notification-subscriber    RabbitMQ subscriber that prints order notifications

Examples:
  ./tracking-hub --mode=tracking-hub --port=3000
  ./tracking-hub --mode=notification-subscriber`)

	fmt.Fprint(w, "\033[0m") // switch back to normal
}

func AttachUsage(fs *flag.FlagSet, mode string) {
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: ./tracking-hub --mode=%s [flags]\n", mode)
		fs.PrintDefaults()
	}
}
