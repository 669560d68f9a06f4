package services

import (
	"fmt"
	"regexp"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// ambiguousTerm pairs a compiled trigger pattern with the display form
// used in the finding text.
type ambiguousTerm struct {
	pattern *regexp.Regexp
	term    string
}

// Trigger tables for the rule engine. All matching is case-insensitive.
// The tables are fixed; the ambiguous terms are checked one by one so
// each distinct term yields its own finding.
var (
	ambiguousTerms = []ambiguousTerm{
		{regexp.MustCompile(`(?i)\bmay\b`), "may"},
		{regexp.MustCompile(`(?i)\bpossible\b`), "possible"},
		{regexp.MustCompile(`(?i)\bsubject to\b`), "subject to"},
		{regexp.MustCompile(`(?i)\bas appropriate\b`), "as appropriate"},
		{regexp.MustCompile(`(?i)\bwhere practicable\b`), "where practicable"},
	}

	federalCourtsPattern = regexp.MustCompile(
		`(?i)UAE Federal Courts|Federal Courts of the UAE|\bUAE Courts\b`)

	jurisdictionPattern = regexp.MustCompile(
		`(?i)ADGM|Abu Dhabi Global Market|ADGM Courts|\bAbu Dhabi\b`)

	signaturePattern = regexp.MustCompile(
		`(?i)Signature:|Signed by|Signatory|Signature\s+of`)

	// reviewTriggerPattern selects paragraphs worth sending to grounded
	// review: the union of the ambiguous, wrong-jurisdiction and
	// signature categories.
	reviewTriggerPattern = regexp.MustCompile(
		`(?i)\bmay\b|\bpossible\b|\bsubject to\b|\bas appropriate\b|\bwhere practicable\b` +
			`|UAE Federal Courts|Federal Courts of the UAE|\bUAE Courts\b` +
			`|Signature:|Signed by|Signatory|Signature\s+of`)
)

// HeuristicChecks runs the per-paragraph detectors over the extracted
// paragraphs and returns their findings in paragraph order. For each
// paragraph the wrong-jurisdiction check runs first, then each
// ambiguous term in table order.
func HeuristicChecks(paras []domain.Paragraph) []domain.Finding {
	var findings []domain.Finding
	for _, p := range paras {
		if federalCourtsPattern.MatchString(p.Text) {
			findings = append(findings, domain.Finding{
				Level:      domain.ParagraphLevel(p.Index),
				Issue:      "References UAE Federal Courts instead of ADGM",
				Section:    fmt.Sprintf("Paragraph %d", p.Index),
				Severity:   domain.SeverityHigh,
				Suggestion: "Replace references to UAE Federal Courts with ADGM Courts (per ADGM Companies Regulations).",
			})
		}
		for _, t := range ambiguousTerms {
			if t.pattern.MatchString(p.Text) {
				findings = append(findings, domain.Finding{
					Level:      domain.ParagraphLevel(p.Index),
					Issue:      fmt.Sprintf("Ambiguous language: contains '%s'", t.term),
					Section:    fmt.Sprintf("Paragraph %d", p.Index),
					Severity:   domain.SeverityMedium,
					Suggestion: "Consider clarifying to explicit obligation or remove discretionary terms.",
				})
			}
		}
	}
	return findings
}

// DocumentLevelChecks runs the whole-document detectors over the
// newline-joined paragraph text: signature-block presence first, then
// jurisdiction presence. Each absent indicator yields one finding.
func DocumentLevelChecks(paras []domain.Paragraph) []domain.Finding {
	combined := domain.CombinedText(paras)

	var findings []domain.Finding
	if !signaturePattern.MatchString(combined) {
		findings = append(findings, domain.Finding{
			Level:      domain.DocumentLevel(),
			Issue:      "No signatory or signature block detected",
			Section:    "End of document",
			Severity:   domain.SeverityHigh,
			Suggestion: "Add a clearly labelled signature block for authorized signatories with name, title and date.",
		})
	}
	if !jurisdictionPattern.MatchString(combined) {
		findings = append(findings, domain.Finding{
			Level:      domain.DocumentLevel(),
			Issue:      "Jurisdiction not specified as ADGM",
			Section:    "Governing Law / Jurisdiction clause",
			Severity:   domain.SeverityHigh,
			Suggestion: "Set governing law and jurisdiction to ADGM and ADGM Courts.",
		})
	}
	return findings
}

// MatchesReviewTrigger reports whether a paragraph's text contains any
// pattern that warrants grounded review.
func MatchesReviewTrigger(text string) bool {
	return reviewTriggerPattern.MatchString(text)
}
