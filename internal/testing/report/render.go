// Package report renders run summaries as JSON, JUnit XML and HTML and
// persists them to the reports directory.
package report

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html/template"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
	"github.com/agiulucom42-del/synthetic-scout/internal/testing/metrics"
)

// SuiteName is the JUnit testsuite name.
const SuiteName = "synthetic-scout"

// RenderJSON returns the summary as indented JSON.
func RenderJSON(summary *metrics.Summary) ([]byte, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding summary: %w", err)
	}

	return append(data, '\n'), nil
}

type junitSuite struct {
	XMLName  xml.Name    `xml:"testsuite"`
	Name     string      `xml:"name,attr"`
	Tests    int         `xml:"tests,attr"`
	Failures int         `xml:"failures,attr"`
	Errors   int         `xml:"errors,attr"`
	Skipped  int         `xml:"skipped,attr"`
	Time     string      `xml:"time,attr"`
	Cases    []junitCase `xml:"testcase"`
}

type junitCase struct {
	ClassName string        `xml:"classname,attr"`
	Name      string        `xml:"name,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitMessage `xml:"failure,omitempty"`
	Error     *junitMessage `xml:"error,omitempty"`
	Skipped   *junitMessage `xml:"skipped,omitempty"`
}

type junitMessage struct {
	Message string `xml:"message,attr"`
	Body    string `xml:",cdata"`
}

// RenderJUnit returns the summary as a single JUnit testsuite.
func RenderJUnit(summary *metrics.Summary) ([]byte, error) {
	suite := junitSuite{
		Name:     SuiteName,
		Tests:    summary.Total,
		Failures: summary.Failed,
		Errors:   summary.Error,
		Skipped:  summary.Skipped,
		Time:     seconds(summary.TotalDurationMS),
		Cases:    make([]junitCase, 0, len(summary.Results)),
	}

	for _, r := range summary.Results {
		tc := junitCase{
			ClassName: SuiteName,
			Name:      r.Name,
			Time:      "0.000",
		}

		if r.DurationMS != nil {
			tc.Time = seconds(*r.DurationMS)
		}

		msg := &junitMessage{Message: firstLine(r.Details), Body: r.Details}

		switch r.Status {
		case assertion.StatusFailed:
			tc.Failure = msg
		case assertion.StatusError:
			tc.Error = msg
		case assertion.StatusSkipped:
			tc.Skipped = msg
		}

		suite.Cases = append(suite.Cases, tc)
	}

	data, err := xml.MarshalIndent(suite, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding junit: %w", err)
	}

	return append([]byte(xml.Header), append(data, '\n')...), nil
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"color":  statusColor,
	"millis": millis,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>synthetic-scout report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; vertical-align: top; }
th { background: #f5f5f5; }
td.status { color: #fff; font-weight: bold; }
pre { margin: 0; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>synthetic-scout report</h1>
<p>Run <code>{{.RunID}}</code> against <strong>{{.Env}}</strong>{{if .BaseAPIURL}} ({{.BaseAPIURL}}){{end}}</p>
<p>Total {{.Total}} | Passed {{.Passed}} | Failed {{.Failed}} | Errors {{.Error}} | Skipped {{.Skipped}} | Anomalies {{.AnomalyCount}} | Duration {{printf "%.2f" .TotalDurationMS}} ms</p>
<table>
<tr><th>Test</th><th>Status</th><th>Duration (ms)</th><th>Tags</th><th>Details</th></tr>
{{- range .Results}}
<tr><td>{{.Name}}</td><td class="status" style="background: {{color .Status}}">{{.Status}}</td><td>{{millis .DurationMS}}</td><td>{{range $i, $t := .Tags}}{{if $i}}, {{end}}{{$t}}{{end}}</td><td><pre>{{.Details}}</pre></td></tr>
{{- end}}
</table>
</body>
</html>
`))

// RenderHTML returns a standalone HTML page for the summary.
func RenderHTML(summary *metrics.Summary) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, summary); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}

	return buf.Bytes(), nil
}

func statusColor(status assertion.Status) template.CSS {
	switch status {
	case assertion.StatusPassed:
		return "#4caf50"
	case assertion.StatusFailed, assertion.StatusError:
		return "#f44336"
	default:
		return "#9e9e9e"
	}
}

func millis(ms *float64) string {
	if ms == nil {
		return "-"
	}

	return fmt.Sprintf("%.2f", *ms)
}

func seconds(ms float64) string {
	return fmt.Sprintf("%.3f", ms/1000)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}

	return s
}
