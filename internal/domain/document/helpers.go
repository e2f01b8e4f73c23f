package document

import (
	"strings"
	"time"
)

// JudgeName renders "Title Name", or just the name when no title is known.
func JudgeName(j *Judge) string {
	if j == nil || j.Name == "" {
		return ""
	}
	if j.Title != "" {
		return j.Title + " " + j.Name
	}
	return j.Name
}

// CourtName returns the court name, or "" when the court is unknown.
func CourtName(c *CourtInfo) string {
	if c == nil {
		return ""
	}
	return c.CourtName
}

// CourtJurisdiction returns the jurisdiction, falling back to district then county.
func CourtJurisdiction(c *CourtInfo) string {
	if c == nil {
		return ""
	}
	for _, v := range []string{c.Jurisdiction, c.District, c.County} {
		if v != "" {
			return v
		}
	}
	return ""
}

// CaseDetails returns the case name and number, preferring the structured case
// over the legacy flat fields.
func CaseDetails(m *Metadata) (name, number string) {
	if m.Case != nil {
		return m.Case.CaseName, m.Case.CaseNumber
	}
	return m.CaseName, m.CaseNumber
}

// RelevantDate returns the date a reader cares about most and its label:
// filing date, then event date, then the legacy timestamp, then creation time.
func RelevantDate(d *Document) (date, label string) {
	switch {
	case d.Metadata.FilingDate != "":
		return d.Metadata.FilingDate, "Filed"
	case d.Metadata.EventDate != "":
		return d.Metadata.EventDate, "Event"
	case d.Metadata.Timestamp != "":
		return d.Metadata.Timestamp, "Date"
	default:
		return d.CreatedAt, "Created"
	}
}

// FormatParties summarizes the first defendant and prosecutor.
func FormatParties(parties []Party) string {
	var defendant, prosecutor string
	for _, p := range parties {
		role := strings.ToLower(p.Role)
		if defendant == "" && strings.Contains(role, "defendant") {
			defendant = p.Name
		}
		if prosecutor == "" && (strings.Contains(role, "prosecutor") || strings.Contains(role, "state")) {
			prosecutor = p.Name
		}
	}
	var parts []string
	if defendant != "" {
		parts = append(parts, "Defendant: "+defendant)
	}
	if prosecutor != "" {
		parts = append(parts, "Prosecutor: "+prosecutor)
	}
	return strings.Join(parts, " • ")
}

// FormatAttorneys names the first defense attorney, or the first attorney listed.
func FormatAttorneys(attorneys []Attorney) string {
	if len(attorneys) == 0 {
		return ""
	}
	for _, a := range attorneys {
		role := strings.ToLower(a.Role)
		if strings.Contains(role, "defense") || strings.Contains(role, "public defender") {
			return "Defense: " + a.Name
		}
	}
	return attorneys[0].Name
}

const chargeDescriptionLimit = 50

// FormatCharges renders up to three charges as "statute - grade - description".
func FormatCharges(charges []Charge) []string {
	if len(charges) > 3 {
		charges = charges[:3]
	}
	out := make([]string, 0, len(charges))
	for _, c := range charges {
		var parts []string
		if c.Statute != "" {
			parts = append(parts, c.Statute)
		}
		if c.Grade != "" {
			parts = append(parts, c.Grade)
		}
		if c.Description != "" {
			desc := c.Description
			if r := []rune(desc); len(r) > chargeDescriptionLimit {
				desc = string(r[:chargeDescriptionLimit]) + "..."
			}
			parts = append(parts, desc)
		}
		out = append(out, strings.Join(parts, " - "))
	}
	return out
}

// Priority is a coarse triage bucket.
type Priority string

// Priority values.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DocumentPriority buckets a document for triage.
func DocumentPriority(d *Document) Priority {
	docType := strings.ToLower(d.DocType)
	subject := strings.ToLower(d.Metadata.Subject)
	outcome := StatusOutcome(d.Metadata.Status)

	switch {
	case containsAny(docType, "motion_to_suppress", "motion_to_dismiss"),
		containsAny(subject, "suppress", "dismiss"),
		outcome == OutcomeGranted:
		return PriorityHigh
	case containsAny(docType, "motion", "order", "ruling"):
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Outcome is the result of a motion or ruling.
type Outcome string

// Outcome values.
const (
	OutcomeNone    Outcome = ""
	OutcomeGranted Outcome = "Granted"
	OutcomeDenied  Outcome = "Denied"
	OutcomePending Outcome = "Pending"
)

// StatusOutcome classifies a free-text status. "unfavorable" is a denial even
// though it contains "favorable".
func StatusOutcome(status string) Outcome {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "granted"),
		strings.Contains(s, "favorable") && !strings.Contains(s, "unfavorable"):
		return OutcomeGranted
	case containsAny(s, "denied", "unfavorable"):
		return OutcomeDenied
	case strings.Contains(s, "pending"):
		return OutcomePending
	default:
		return OutcomeNone
	}
}

// MotionBadge is a display summary of a motion's type and outcome.
type MotionBadge struct {
	Type    string  `json:"type"`
	Outcome Outcome `json:"outcome,omitempty"`
	Color   string  `json:"color"`
}

// MotionStatus summarizes a document's motion type and outcome.
func MotionStatus(d *Document) MotionBadge {
	docType := strings.ToLower(d.DocType)
	subject := strings.ToLower(d.Metadata.Subject)

	b := MotionBadge{Type: "Document", Color: "neutral"}
	switch {
	case strings.Contains(docType, "motion_to_suppress") || strings.Contains(subject, "suppress"):
		b.Type, b.Color = "Suppression Motion", "blue"
	case strings.Contains(docType, "motion_to_dismiss") || strings.Contains(subject, "dismiss"):
		b.Type, b.Color = "Motion to Dismiss", "purple"
	case strings.Contains(docType, "motion"):
		b.Type, b.Color = "Motion", "indigo"
	case strings.Contains(docType, "order"):
		b.Type, b.Color = "Order", "green"
	case strings.Contains(docType, "ruling"):
		b.Type, b.Color = "Ruling", "green"
	}

	b.Outcome = StatusOutcome(d.Metadata.Status)
	switch b.Outcome {
	case OutcomeGranted:
		b.Color = "green"
	case OutcomeDenied:
		b.Color = "red"
	case OutcomePending:
		b.Color = "yellow"
	}
	return b
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate parses the date formats the backend and classifier emit.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
