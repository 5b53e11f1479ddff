package output

import (
	"encoding/json"
	"io"

	"github.com/yiranlandtour/solana-move/internal/types"
)

// SARIFFormatter outputs findings in SARIF 2.1.0 format for GitHub Code
// Scanning.
type SARIFFormatter struct{}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	ShortDescription sarifMessage        `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig  `json:"defaultConfiguration"`
	Properties       sarifRuleProperties `json:"properties"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifRuleProperties struct {
	Tags []string `json:"tags,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

func (f *SARIFFormatter) Format(w io.Writer, report *types.AuditReport) error {
	ruleIndex := map[string]int{}
	var rules []sarifRule
	for _, finding := range report.Findings {
		if _, ok := ruleIndex[finding.RuleID]; !ok {
			ruleIndex[finding.RuleID] = len(rules)
			rules = append(rules, sarifRule{
				ID:               finding.RuleID,
				Name:             finding.Category,
				ShortDescription: sarifMessage{Text: finding.Description},
				DefaultConfig:    sarifDefaultConfig{Level: severityToLevel(finding.Severity)},
				Properties:       sarifRuleProperties{Tags: []string{finding.Category}},
			})
		}
	}

	results := make([]sarifResult, 0, len(report.Findings))
	for _, finding := range report.Findings {
		msg := finding.Description
		if finding.MatchedText != "" {
			msg += ": " + finding.MatchedText
		}
		// Whole-unit findings carry no region; SARIF requires startLine >= 1.
		var region *sarifRegion
		if finding.Line > 0 {
			region = &sarifRegion{StartLine: finding.Line}
		}
		results = append(results, sarifResult{
			RuleID:    finding.RuleID,
			RuleIndex: ruleIndex[finding.RuleID],
			Level:     severityToLevel(finding.Severity),
			Message:   sarifMessage{Text: msg},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: finding.File},
					Region:           region,
				},
			}},
		})
	}

	log := sarifLog{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:           "ccaudit",
				Version:        ToolVersion,
				InformationURI: "https://github.com/yiranlandtour/solana-move",
				Rules:          rules,
			}},
			Results: results,
			Properties: map[string]any{
				"securityScore": report.SecurityScore,
			},
		}},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

func severityToLevel(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical, types.SeverityHigh:
		return "error"
	case types.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
