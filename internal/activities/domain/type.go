// Package domain holds the activity type enum and the content classifier.
package domain

import "strings"

// Type classifies an activity entry on a deal timeline.
type Type string

const (
	TypeNote     Type = "NOTE"
	TypeCall     Type = "CALL"
	TypeEmail    Type = "EMAIL"
	TypeMeeting  Type = "MEETING"
	TypeDecision Type = "DECISION"
)

// AllTypes lists every known activity type.
var AllTypes = []Type{TypeNote, TypeCall, TypeEmail, TypeMeeting, TypeDecision}

// IsKnownType reports whether t is part of the closed activity type set.
func IsKnownType(t Type) bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// classifierRules is checked in order; the first vocabulary hit wins.
// The vocabulary is German because that is what the advisors write.
var classifierRules = []struct {
	activityType Type
	keywords     []string
}{
	{TypeDecision, []string{"entscheidung", "entschieden", "beschluss", "beschlossen"}},
	{TypeCall, []string{"anruf", "telefonat", "angerufen", "call"}},
	{TypeEmail, []string{"mail", "schreiben gesendet"}},
	{TypeMeeting, []string{"meeting", "termin", "besprechung", "treffen"}},
}

// Classify assigns an activity type from content by case-insensitive keyword
// matching. Content matching nothing is a plain NOTE.
func Classify(content string) Type {
	lower := strings.ToLower(content)
	for _, rule := range classifierRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.activityType
			}
		}
	}
	return TypeNote
}
