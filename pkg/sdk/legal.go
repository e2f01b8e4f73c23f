package lexsearch

import (
	"time"

	"github.com/kailas-cloud/lexsearch/internal/domain/document"
	"github.com/kailas-cloud/lexsearch/internal/domain/ranking"
)

// Display helpers for legal metadata.
type (
	Priority    = document.Priority
	Outcome     = document.Outcome
	MotionBadge = document.MotionBadge
)

// FormatParties summarizes the first defendant and prosecutor.
func FormatParties(parties []Party) string { return document.FormatParties(parties) }

// FormatAttorneys names the first defense attorney, or the first listed.
func FormatAttorneys(attorneys []Attorney) string { return document.FormatAttorneys(attorneys) }

// FormatCharges renders up to three charges as "statute - grade - description".
func FormatCharges(charges []Charge) []string { return document.FormatCharges(charges) }

// RelevantDate returns the date a reader cares about most and its label.
func RelevantDate(d *Document) (date, label string) { return document.RelevantDate(d) }

// CaseDetails returns the case name and number, preferring structured case info.
func CaseDetails(m *Metadata) (name, number string) { return document.CaseDetails(m) }

// DocumentPriority buckets a document for triage.
func DocumentPriority(d *Document) Priority { return document.DocumentPriority(d) }

// StatusOutcome maps a free-text status to an outcome.
func StatusOutcome(status string) Outcome { return document.StatusOutcome(status) }

// MotionStatus returns the badge shown for a motion.
func MotionStatus(d *Document) MotionBadge { return document.MotionStatus(d) }

// Score is the importance score Rank orders by.
func Score(d *Document, now time.Time) int { return ranking.Score(d, now) }

// Rank orders docs by importance, most important first. Ties keep their order.
func Rank(docs []Document, now time.Time) []Document { return ranking.Rank(docs, now) }

// Priority and outcome values.
const (
	PriorityHigh   = document.PriorityHigh
	PriorityMedium = document.PriorityMedium
	PriorityLow    = document.PriorityLow

	OutcomeGranted = document.OutcomeGranted
	OutcomeDenied  = document.OutcomeDenied
	OutcomePending = document.OutcomePending
)
