// Package ranking orders legal documents by triage importance.
package ranking

import (
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/lexsearch/internal/domain/document"
)

type rule struct {
	docType string // substring of doc_type
	subject string // substring of subject, empty to skip
	weight  int
}

// Type rules in precedence order; the first match applies.
var typeRules = []rule{
	{"motion_to_suppress", "suppress", 1000},
	{"motion_to_dismiss", "dismiss", 900},
	{"motion_summary_judgment", "summary judgment", 800},
	{"motion_in_limine", "in limine", 700},
	{"motion_to_compel", "compel", 600},
	{"order", "", 500},
	{"ruling", "", 500},
	{"motion", "", 400},
	{"brief", "", 300},
	{"transcript", "", 200},
}

var highValueTags = []string{
	"fourth amendment", "suppression", "search and seizure", "miranda",
	"due process", "discovery", "brady", "prosecutorial misconduct",
	"ineffective assistance", "sentencing", "plea bargain",
}

// Signal weights.
const (
	weightGranted     = 500
	weightDenied      = 300
	weightPending     = 100
	weightTag         = 200
	weightFelony      = 150
	weightMisdemeanor = 75
	weightSupreme     = 300
	weightAppellate   = 200
	weightSuperior    = 100
	weightRecent30    = 50
	weightRecent90    = 30
	weightRecent365   = 10
	penaltyOver100    = -50
	penaltyOver50     = -20
)

// Score computes the importance of a document relative to now. Categories add
// up; within a category the first matching rule wins.
func Score(d *document.Document, now time.Time) int {
	return typeScore(d) +
		statusScore(d.Metadata.Status) +
		tagScore(d.Metadata.LegalTags) +
		chargeScore(d.Metadata.Charges) +
		courtScore(document.CourtName(d.Metadata.Court)) +
		recencyScore(d, now) +
		lengthScore(d.Metadata.PageTotal())
}

// Rank returns a copy of docs sorted by descending score. Equal scores keep
// their input order.
func Rank(docs []document.Document, now time.Time) []document.Document {
	type scored struct {
		doc   document.Document
		score int
	}
	items := make([]scored, len(docs))
	for i := range docs {
		items[i] = scored{doc: docs[i], score: Score(&docs[i], now)}
	}
	slices.SortStableFunc(items, func(a, b scored) int { return b.score - a.score })

	out := make([]document.Document, len(items))
	for i := range items {
		out[i] = items[i].doc
	}
	return out
}

func typeScore(d *document.Document) int {
	docType := strings.ToLower(d.DocType)
	subject := strings.ToLower(d.Metadata.Subject)
	for _, r := range typeRules {
		if strings.Contains(docType, r.docType) || (r.subject != "" && strings.Contains(subject, r.subject)) {
			return r.weight
		}
	}
	return 0
}

func statusScore(status string) int {
	switch document.StatusOutcome(status) {
	case document.OutcomeGranted:
		return weightGranted
	case document.OutcomeDenied:
		return weightDenied
	case document.OutcomePending:
		return weightPending
	default:
		return 0
	}
}

func tagScore(tags []string) int {
	score := 0
	for _, tag := range tags {
		tag = strings.ToLower(tag)
		for _, hv := range highValueTags {
			if strings.Contains(tag, hv) {
				score += weightTag
				break
			}
		}
	}
	return score
}

func chargeScore(charges []document.Charge) int {
	score := 0
	for _, c := range charges {
		text := strings.ToLower(c.Description + " " + c.Statute + " " + c.Grade)
		switch {
		case strings.Contains(text, "felony"):
			score += weightFelony
		case strings.Contains(text, "misdemeanor"):
			score += weightMisdemeanor
		}
	}
	return score
}

func courtScore(name string) int {
	name = strings.ToLower(name)
	switch {
	case strings.Contains(name, "supreme"):
		return weightSupreme
	case strings.Contains(name, "appellate"), strings.Contains(name, "appeal"):
		return weightAppellate
	case strings.Contains(name, "superior"):
		return weightSuperior
	default:
		return 0
	}
}

func recencyScore(d *document.Document, now time.Time) int {
	date, _ := document.RelevantDate(d)
	t, ok := document.ParseDate(date)
	if !ok {
		return 0
	}
	days := now.Sub(t).Hours() / 24
	switch {
	case days < 30:
		return weightRecent30
	case days < 90:
		return weightRecent90
	case days < 365:
		return weightRecent365
	default:
		return 0
	}
}

func lengthScore(pages int) int {
	switch {
	case pages > 100:
		return penaltyOver100
	case pages > 50:
		return penaltyOver50
	default:
		return 0
	}
}
