package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Question is one flashcard inside a submission document.
type Question struct {
	ID              string `json:"id,omitempty"`
	Question        string `json:"question"`
	Answer          string `json:"answer"`
	ReadMore        string `json:"readMore,omitempty"`
	Rating          int    `json:"rating,omitempty"`
	AdminComment    string `json:"adminComment,omitempty"`
	ReviewerName    string `json:"reviewerName,omitempty"`
	ReviewTimestamp string `json:"reviewTimestamp,omitempty"`
	MainCategory    string `json:"mainCategory,omitempty"`
	Subcategory1    string `json:"subcategory1,omitempty"`
	Subcategory2    string `json:"subcategory2,omitempty"`
}

// SubmissionData is the canonical shape of the user_submitted_data.data
// column. Older records store a bare JSON array of questions with no
// metadata; Normalize upgrades both generations to this shape. Writes always
// persist the canonical shape, so the legacy population only shrinks.
type SubmissionData struct {
	Questions               []Question `json:"questions"`
	SubmitterLocation       string     `json:"submitterLocation,omitempty"`
	SubmittedAt             string     `json:"submittedAt,omitempty"`
	LocationUpdatedAt       string     `json:"locationUpdatedAt,omitempty"`
	OverallComment          string     `json:"overallComment,omitempty"`
	OverallCommentBy        string     `json:"overallCommentBy,omitempty"`
	OverallCommentTimestamp string     `json:"overallCommentTimestamp,omitempty"`
	MainCategory            string     `json:"mainCategory,omitempty"`
	MainCategoryBy          string     `json:"mainCategoryBy,omitempty"`
	MainCategoryTimestamp   string     `json:"mainCategoryTimestamp,omitempty"`
	Subcategory1            string     `json:"subcategory1,omitempty"`
	Subcategory1By          string     `json:"subcategory1By,omitempty"`
	Subcategory1Timestamp   string     `json:"subcategory1Timestamp,omitempty"`
	Subcategory2            string     `json:"subcategory2,omitempty"`
	Subcategory2By          string     `json:"subcategory2By,omitempty"`
	Subcategory2Timestamp   string     `json:"subcategory2Timestamp,omitempty"`

	// Revision guards concurrent admin edits: every mutation increments it
	// and the store write is conditional on the revision read at fetch time.
	Revision int64 `json:"revision,omitempty"`
}

// Category fields that can be assigned at submission level and mirrored onto
// every question.
const (
	FieldMainCategory = "mainCategory"
	FieldSubcategory1 = "subcategory1"
	FieldSubcategory2 = "subcategory2"
)

const defaultLocation = "Unknown"

// Normalize converts a raw data column of either generation into the
// canonical shape. Decoding is lenient and field by field: a value of the
// wrong type degrades that one field to its default without dropping the
// rest of the document. Only input that is absent, null or not valid JSON
// at all degrades to an empty document; it never fails. Re-normalizing a
// canonical document is a no-op apart from question ids, which
// EnsureQuestionIDs handles separately.
func Normalize(raw json.RawMessage) SubmissionData {
	doc := SubmissionData{
		Questions:         []Question{},
		SubmitterLocation: defaultLocation,
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return doc
	}

	if trimmed[0] == '[' {
		// Old format: the column is the question array itself.
		doc.Questions = decodeQuestions(trimmed)
		return doc
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return doc
	}

	doc.Questions = decodeQuestions(fields["questions"])
	if loc := stringField(fields, "submitterLocation"); loc != "" {
		doc.SubmitterLocation = loc
	}
	doc.SubmittedAt = stringField(fields, "submittedAt")
	doc.LocationUpdatedAt = stringField(fields, "locationUpdatedAt")
	doc.OverallComment = stringField(fields, "overallComment")
	doc.OverallCommentBy = stringField(fields, "overallCommentBy")
	doc.OverallCommentTimestamp = stringField(fields, "overallCommentTimestamp")
	doc.MainCategory = stringField(fields, "mainCategory")
	doc.MainCategoryBy = stringField(fields, "mainCategoryBy")
	doc.MainCategoryTimestamp = stringField(fields, "mainCategoryTimestamp")
	doc.Subcategory1 = stringField(fields, "subcategory1")
	doc.Subcategory1By = stringField(fields, "subcategory1By")
	doc.Subcategory1Timestamp = stringField(fields, "subcategory1Timestamp")
	doc.Subcategory2 = stringField(fields, "subcategory2")
	doc.Subcategory2By = stringField(fields, "subcategory2By")
	doc.Subcategory2Timestamp = stringField(fields, "subcategory2Timestamp")
	doc.Revision = intField(fields, "revision")
	return doc
}

// decodeQuestions decodes a question array leniently. Items that are not
// objects are dropped; within an object, any field that fails to decode
// falls back to its zero value while the rest of the question survives. The
// untyped writer that produced the older records sometimes stored numbers as
// strings, so rating accepts both.
func decodeQuestions(raw json.RawMessage) []Question {
	questions := []Question{}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return questions
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return questions
	}

	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			continue
		}
		questions = append(questions, Question{
			ID:              stringField(fields, "id"),
			Question:        stringField(fields, "question"),
			Answer:          stringField(fields, "answer"),
			ReadMore:        stringField(fields, "readMore"),
			Rating:          int(intField(fields, "rating")),
			AdminComment:    stringField(fields, "adminComment"),
			ReviewerName:    stringField(fields, "reviewerName"),
			ReviewTimestamp: stringField(fields, "reviewTimestamp"),
			MainCategory:    stringField(fields, "mainCategory"),
			Subcategory1:    stringField(fields, "subcategory1"),
			Subcategory2:    stringField(fields, "subcategory2"),
		})
	}
	return questions
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func intField(fields map[string]json.RawMessage, key string) int64 {
	raw, ok := fields[key]
	if !ok {
		return 0
	}
	var n int64
	if json.Unmarshal(raw, &n) == nil {
		return n
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// EnsureQuestionIDs assigns a fresh UUID to every question that lacks one and
// reports whether any were assigned, so callers can persist the ids instead
// of regenerating them on the next read. Existing ids are never touched.
func EnsureQuestionIDs(questions []Question) ([]Question, bool) {
	assigned := false
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
			assigned = true
		}
	}
	return questions, assigned
}

// PropagateCategory sets a taxonomy field on the document and mirrors the
// value onto every question, recording who assigned it and when. The field
// must be one of the Field* constants and the actor must not be blank.
func PropagateCategory(doc SubmissionData, field, value, actor string, now time.Time) (SubmissionData, error) {
	if strings.TrimSpace(actor) == "" {
		return doc, &ValidationError{Field: "reviewer_name", Message: "reviewer name is required"}
	}

	stamp := now.UTC().Format(time.RFC3339)
	switch field {
	case FieldMainCategory:
		doc.MainCategory = value
		doc.MainCategoryBy = actor
		doc.MainCategoryTimestamp = stamp
		for i := range doc.Questions {
			doc.Questions[i].MainCategory = value
		}
	case FieldSubcategory1:
		doc.Subcategory1 = value
		doc.Subcategory1By = actor
		doc.Subcategory1Timestamp = stamp
		for i := range doc.Questions {
			doc.Questions[i].Subcategory1 = value
		}
	case FieldSubcategory2:
		doc.Subcategory2 = value
		doc.Subcategory2By = actor
		doc.Subcategory2Timestamp = stamp
		for i := range doc.Questions {
			doc.Questions[i].Subcategory2 = value
		}
	default:
		return doc, &ValidationError{Field: "field", Message: "unknown category field: " + field}
	}

	doc.Revision++
	return doc, nil
}

// MergeQuestions replaces the document's question list with an admin's edited
// list. Edited items carrying an admin comment are stamped with the reviewer
// and a fresh timestamp; everything else passes through as given. The caller
// is expected to have started from the full current list, so the same
// primitive covers in-place edits, appended questions and removals.
func MergeQuestions(doc SubmissionData, edited []Question, actor string, now time.Time) (SubmissionData, error) {
	if strings.TrimSpace(actor) == "" {
		return doc, &ValidationError{Field: "reviewer_name", Message: "reviewer name is required"}
	}
	for i := range edited {
		if strings.TrimSpace(edited[i].Question) == "" || strings.TrimSpace(edited[i].Answer) == "" {
			return doc, &ValidationError{Field: "questions", Message: "every question needs both question and answer text"}
		}
	}

	stamp := now.UTC().Format(time.RFC3339)
	merged := make([]Question, len(edited))
	copy(merged, edited)
	for i := range merged {
		if strings.TrimSpace(merged[i].AdminComment) != "" {
			merged[i].ReviewerName = actor
			merged[i].ReviewTimestamp = stamp
		}
	}

	doc.Questions = merged
	doc.Revision++
	return doc, nil
}

// SetOverallComment records a submission-level admin annotation.
func SetOverallComment(doc SubmissionData, comment, actor string, now time.Time) (SubmissionData, error) {
	if strings.TrimSpace(actor) == "" {
		return doc, &ValidationError{Field: "reviewer_name", Message: "reviewer name is required"}
	}

	doc.OverallComment = comment
	doc.OverallCommentBy = actor
	doc.OverallCommentTimestamp = now.UTC().Format(time.RFC3339)
	doc.Revision++
	return doc, nil
}

// SetSubmitterLocation updates the submitter's location on the document.
func SetSubmitterLocation(doc SubmissionData, location string, now time.Time) SubmissionData {
	doc.SubmitterLocation = location
	doc.LocationUpdatedAt = now.UTC().Format(time.RFC3339)
	doc.Revision++
	return doc
}

// IsUnreviewed reports whether a question carries no review signal at all:
// no rating, no admin comment and no reviewer attribution.
func IsUnreviewed(q Question) bool {
	return q.Rating == 0 &&
		strings.TrimSpace(q.AdminComment) == "" &&
		strings.TrimSpace(q.ReviewerName) == ""
}

// UnreviewedCounts scans normalized documents and counts questions with no
// review signal, plus the submissions containing at least one such question.
func UnreviewedCounts(docs []SubmissionData) (submissions, questions int) {
	for _, doc := range docs {
		hasUnreviewed := false
		for _, q := range doc.Questions {
			if IsUnreviewed(q) {
				questions++
				hasUnreviewed = true
			}
		}
		if hasUnreviewed {
			submissions++
		}
	}
	return submissions, questions
}
