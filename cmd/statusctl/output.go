package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jwalton/go-supportscolor"

	"github.com/jonwraymond/statuskit/status"
)

var (
	green = "\033[32m"
	red   = "\033[31m"
	reset = "\033[0m"
)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		green, red, reset = "", "", ""
	}
}

// printEnvelope writes one envelope with a colored status tag, followed by
// the error or the results.
func printEnvelope(w io.Writer, env status.Envelope) {
	if env.Success {
		fmt.Fprintf(w, "%s[OK]%s %s (%s)\n", green, reset, env.Name, env.Duration.Round(time.Microsecond))
	} else {
		fmt.Fprintf(w, "%s[FAIL]%s %s (%s)\n", red, reset, env.Name, env.Duration.Round(time.Microsecond))
	}

	if env.Error != nil {
		fmt.Fprintf(w, "      %s\n", env.Error)
		return
	}
	if env.Results == nil {
		return
	}
	b, err := json.Marshal(env.Results)
	if err != nil {
		fmt.Fprintf(w, "      %v\n", env.Results)
		return
	}
	fmt.Fprintf(w, "      %s\n", b)
}
