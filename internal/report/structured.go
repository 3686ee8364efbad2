package report

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/termfx/jsxlint/core"
)

// eslintResult mirrors one entry of ESLint's JSON formatter output.
type eslintResult struct {
	FilePath            string          `json:"filePath"`
	Messages            []eslintMessage `json:"messages"`
	ErrorCount          int             `json:"errorCount"`
	FatalErrorCount     int             `json:"fatalErrorCount"`
	WarningCount        int             `json:"warningCount"`
	FixableErrorCount   int             `json:"fixableErrorCount"`
	FixableWarningCount int             `json:"fixableWarningCount"`
	Output              string          `json:"output,omitempty"`
}

type eslintMessage struct {
	RuleID    *string   `json:"ruleId"`
	Severity  int       `json:"severity"`
	Message   string    `json:"message"`
	Line      int       `json:"line"`
	Column    int       `json:"column"`
	EndLine   int       `json:"endLine,omitempty"`
	EndColumn int       `json:"endColumn,omitempty"`
	MessageID string    `json:"messageId,omitempty"`
	Fix       *core.Fix `json:"fix,omitempty"`
	Fatal     bool      `json:"fatal,omitempty"`
}

func toESLint(run *core.RunResult) []eslintResult {
	out := make([]eslintResult, 0, len(run.Files))
	for _, f := range run.Files {
		r := eslintResult{FilePath: f.FilePath, Messages: []eslintMessage{}}
		if f.Fixed {
			r.Output = f.Output
		}
		if f.Error != "" {
			r.Messages = append(r.Messages, eslintMessage{Severity: int(core.SeverityError), Message: f.Error, Fatal: true})
			r.ErrorCount++
			r.FatalErrorCount++
		}
		for _, d := range f.Diagnostics {
			m := eslintMessage{
				Severity:  int(d.Severity),
				Message:   d.Message,
				Line:      d.Location.Line,
				Column:    d.Location.Column,
				EndLine:   d.Location.EndLine,
				EndColumn: d.Location.EndColumn,
				MessageID: d.MessageID,
				Fix:       d.Fix,
				Fatal:     d.Fatal,
			}
			if d.RuleID != "" {
				id := d.RuleID
				m.RuleID = &id
			}
			r.Messages = append(r.Messages, m)

			switch d.Severity {
			case core.SeverityError:
				r.ErrorCount++
				if d.Fatal {
					r.FatalErrorCount++
				}
				if d.Fix != nil {
					r.FixableErrorCount++
				}
			case core.SeverityWarn:
				r.WarningCount++
				if d.Fix != nil {
					r.FixableWarningCount++
				}
			}
		}
		out = append(out, r)
	}
	return out
}

func writeJSON(w io.Writer, run *core.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toESLint(run))
}

func writeYAML(w io.Writer, run *core.RunResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(run); err != nil {
		return err
	}
	return enc.Close()
}
