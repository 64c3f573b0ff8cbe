// Package report renders the end-of-run summary table.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"osdstamp/recorder"
	"osdstamp/timesync"
)

// Summary renders a property/value table of what the invocation did:
// selected mode, sync outcome when one was attempted, and every variable
// written to the store.
func Summary(mode string, sync *timesync.SyncResult, written []recorder.Variable) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.Header("Property", "Value")

	table.Append([]string{"Mode", mode})

	if sync != nil {
		server := sync.Server
		if sync.ServerIP != "" && sync.ServerIP != sync.Server {
			server = fmt.Sprintf("%s (%s)", sync.Server, sync.ServerIP)
		}
		table.Append([]string{"NTP Server", server})
		if sync.Success {
			table.Append([]string{"Clock Offset", colorByMagnitude(sync.Offset.String(), sync.Offset)})
			table.Append([]string{"Round Trip Time", sync.RTT.String()})
			table.Append([]string{"Stratum", fmt.Sprintf("%d", sync.Stratum)})
		} else {
			table.Append([]string{"Sync", color.RedString("failed, proceeding with local clock")})
		}
	}

	for _, v := range written {
		table.Append([]string{v.Name, v.Value})
	}

	table.Render()
	return buf.String()
}

// colorByMagnitude colors a duration cell green under 250ms, yellow under
// a second, red beyond that.
func colorByMagnitude(value string, d time.Duration) string {
	switch {
	case d.Abs() < 250*time.Millisecond:
		return color.GreenString(value)
	case d.Abs() < time.Second:
		return color.YellowString(value)
	default:
		return color.RedString(value)
	}
}
