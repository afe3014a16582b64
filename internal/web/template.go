package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/level-sensor/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"glyph": func(g string) string {
		switch g {
		case "SENT":
			return "sent"
		case "DISCONNECTED":
			return "disconnected"
		}
		return "-"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Level Sensor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.depth { font-size: 2em; font-weight: bold; white-space: pre; }
.sent { color: green; }
.disconnected { color: red; }
.connected { color: green; }
</style>
</head>
<body>
<h1>Level Sensor</h1>

<h2>Reading</h2>
<table>
{{if .Sampled}}<tr><th>Display</th><td class="depth">{{.Frame.Text}}</td></tr>
<tr><th>Depth</th><td>{{.Depth}} mm</td></tr>
<tr><th>Raw</th><td>{{.Raw}}</td></tr>
<tr><th>Status</th><td class="{{glyph (printf "%s" .Frame.Glyph)}}">{{glyph (printf "%s" .Frame.Glyph)}}</td></tr>
<tr><th>Window</th><td>{{.Window.Count}} samples</td></tr>
{{else}}<tr><th>Ready</th><td>no</td></tr>
{{end}}</table>

<h2>Last Report</h2>
<table>
{{with .LastReport}}<tr><th>Time</th><td>{{.Timestamp.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Depth</th><td>{{.Depth}} mm</td></tr>
<tr><th>Samples</th><td>{{.Samples}}</td></tr>
<tr><th>Outcome</th><td>{{$.LastOutcome}}{{if .Reason}} ({{.Reason}}){{end}}</td></tr>
{{else}}<tr><th>Time</th><td>none yet</td></tr>
{{end}}</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Topic prefix</th><td>{{.Config.TopicPrefix}}</td></tr>
</table>

<h2>Report Counts</h2>
<table>
<tr><th>Reports</th><td>{{.Counts.Reports}}</td></tr>
<tr><th>Transmitted</th><td>{{.Counts.Transmitted}}</td></tr>
<tr><th>Failed</th><td>{{.Counts.Failed}}</td></tr>
<tr><th>Disconnected</th><td>{{.Counts.Disconnected}}</td></tr>
<tr><th>Skipped</th><td>{{.Counts.Skipped}}</td></tr>
<tr><th>Read errors</th><td>{{.Counts.ReadErrors}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Variant</th><td>{{.Config.Variant}}</td></tr>
<tr><th>Calibration</th><td>(raw - {{.Config.ZeroOffset}}) * {{.Config.ScaleNumerator}} / {{.Config.ScaleDenominator}}</td></tr>
<tr><th>Averaging</th><td>{{if .Config.Averaging}}on{{else}}off{{end}}</td></tr>
<tr><th>Schedule</th><td>{{if .Config.Every}}every {{.Config.Every}} samples{{else}}every {{.Config.IntervalMs}}ms{{end}}</td></tr>
<tr><th>Cadence</th><td>{{.Config.CadenceMs}}ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) error {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	return indexTmpl.Execute(w, data)
}
