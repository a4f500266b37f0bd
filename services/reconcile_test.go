package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func TestNormalizeLegacyArray(t *testing.T) {
	raw := json.RawMessage(`[{"question":"Q1","answer":"A1"},{"question":"Q2","answer":"A2","readMore":"more"}]`)

	doc := Normalize(raw)

	if len(doc.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(doc.Questions))
	}
	if doc.Questions[0].Question != "Q1" || doc.Questions[0].Answer != "A1" {
		t.Errorf("first question = %+v", doc.Questions[0])
	}
	if doc.Questions[1].ReadMore != "more" {
		t.Errorf("readMore = %q, want %q", doc.Questions[1].ReadMore, "more")
	}
	if doc.SubmitterLocation != "Unknown" {
		t.Errorf("submitterLocation = %q, want Unknown", doc.SubmitterLocation)
	}
	if doc.MainCategory != "" || doc.OverallComment != "" {
		t.Errorf("legacy array should carry no metadata, got %+v", doc)
	}
}

func TestNormalizeObjectShape(t *testing.T) {
	raw := json.RawMessage(`{
		"questions": [{"id":"q-1","question":"Q1","answer":"A1","rating":4}],
		"submitterLocation": "Sweden",
		"overallComment": "solid set",
		"mainCategory": "History",
		"subcategory1": "Modern",
		"revision": 7
	}`)

	doc := Normalize(raw)

	if len(doc.Questions) != 1 || doc.Questions[0].Rating != 4 {
		t.Fatalf("questions = %+v", doc.Questions)
	}
	if doc.SubmitterLocation != "Sweden" {
		t.Errorf("submitterLocation = %q", doc.SubmitterLocation)
	}
	if doc.OverallComment != "solid set" || doc.MainCategory != "History" || doc.Subcategory1 != "Modern" {
		t.Errorf("metadata not copied through: %+v", doc)
	}
	if doc.Revision != 7 {
		t.Errorf("revision = %d, want 7", doc.Revision)
	}
}

func TestNormalizeDegradesToDefaults(t *testing.T) {
	tests := []struct {
		name string
		raw  json.RawMessage
	}{
		{"nil", nil},
		{"empty", json.RawMessage(``)},
		{"null", json.RawMessage(`null`)},
		{"malformed", json.RawMessage(`{"questions": [{]`)},
		{"array of non-objects", json.RawMessage(`[17, "nope"]`)},
		{"object without questions", json.RawMessage(`{"somethingElse":true}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Normalize(tt.raw)
			if doc.Questions == nil || len(doc.Questions) != 0 {
				t.Errorf("questions = %#v, want empty slice", doc.Questions)
			}
			if doc.SubmitterLocation != "Unknown" {
				t.Errorf("submitterLocation = %q, want Unknown", doc.SubmitterLocation)
			}
		})
	}
}

func TestNormalizeKeepsQuestionsWithMalformedFields(t *testing.T) {
	// The untyped app that wrote the older records occasionally stored a
	// rating as a string. One bad field must not cost the whole document.
	raw := json.RawMessage(`[{"question":"Q1","answer":"A1","rating":"4"},{"question":"Q2","answer":"A2"}]`)

	doc := Normalize(raw)

	if len(doc.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(doc.Questions))
	}
	if doc.Questions[0].Rating != 4 {
		t.Errorf("string rating = %d, want 4", doc.Questions[0].Rating)
	}
	if doc.Questions[1].Question != "Q2" || doc.Questions[1].Answer != "A2" {
		t.Errorf("clean question damaged: %+v", doc.Questions[1])
	}
}

func TestNormalizeDegradesFieldsNotDocument(t *testing.T) {
	raw := json.RawMessage(`{
		"questions": [
			{"question":"Q1","answer":"A1","rating":{"oops":true}},
			17,
			{"question":"Q2","answer":"A2"}
		],
		"submitterLocation": 7,
		"mainCategory": "History",
		"revision": "3"
	}`)

	doc := Normalize(raw)

	if len(doc.Questions) != 2 {
		t.Fatalf("questions = %d, want 2 (non-object item dropped)", len(doc.Questions))
	}
	if doc.Questions[0].Rating != 0 {
		t.Errorf("unparseable rating = %d, want 0", doc.Questions[0].Rating)
	}
	if doc.Questions[0].Question != "Q1" {
		t.Errorf("question text lost: %+v", doc.Questions[0])
	}
	if doc.SubmitterLocation != "Unknown" {
		t.Errorf("submitterLocation = %q, want Unknown for a non-string value", doc.SubmitterLocation)
	}
	if doc.MainCategory != "History" {
		t.Errorf("mainCategory = %q, want History", doc.MainCategory)
	}
	if doc.Revision != 3 {
		t.Errorf("string revision = %d, want 3", doc.Revision)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := json.RawMessage(`[{"question":"Q1","answer":"A1","rating":3}]`)

	once := Normalize(raw)
	encoded, err := json.Marshal(once)
	if err != nil {
		t.Fatal(err)
	}
	twice := Normalize(encoded)

	if len(twice.Questions) != len(once.Questions) {
		t.Fatalf("question count changed across normalizations: %d vs %d", len(twice.Questions), len(once.Questions))
	}
	for i := range once.Questions {
		if twice.Questions[i] != once.Questions[i] {
			t.Errorf("question %d changed: %+v vs %+v", i, twice.Questions[i], once.Questions[i])
		}
	}
	if twice.SubmitterLocation != once.SubmitterLocation {
		t.Errorf("submitterLocation changed: %q vs %q", twice.SubmitterLocation, once.SubmitterLocation)
	}
}

func TestEnsureQuestionIDs(t *testing.T) {
	questions := []Question{
		{ID: "keep-me", Question: "Q1", Answer: "A1"},
		{Question: "Q2", Answer: "A2"},
		{Question: "Q3", Answer: "A3"},
	}

	result, assigned := EnsureQuestionIDs(questions)

	if !assigned {
		t.Error("assigned = false, want true")
	}
	if result[0].ID != "keep-me" {
		t.Errorf("existing id rewritten to %q", result[0].ID)
	}
	seen := map[string]bool{}
	for i, q := range result {
		if q.ID == "" {
			t.Errorf("question %d still has no id", i)
		}
		if seen[q.ID] {
			t.Errorf("duplicate id %q", q.ID)
		}
		seen[q.ID] = true
	}

	// A second pass must not touch anything.
	before := make([]Question, len(result))
	copy(before, result)
	again, assigned := EnsureQuestionIDs(result)
	if assigned {
		t.Error("second pass assigned ids")
	}
	for i := range before {
		if again[i].ID != before[i].ID {
			t.Errorf("id %d changed on second pass", i)
		}
	}
}

func TestPropagateCategory(t *testing.T) {
	doc := SubmissionData{
		Questions: []Question{
			{ID: "a", Question: "Q1", Answer: "A1", MainCategory: "Old"},
			{ID: "b", Question: "Q2", Answer: "A2"},
		},
		Revision: 2,
	}

	updated, err := PropagateCategory(doc, FieldMainCategory, "History", "Alice", testNow)
	if err != nil {
		t.Fatal(err)
	}

	if updated.MainCategory != "History" || updated.MainCategoryBy != "Alice" {
		t.Errorf("document metadata = %q by %q", updated.MainCategory, updated.MainCategoryBy)
	}
	if updated.MainCategoryTimestamp != testNow.Format(time.RFC3339) {
		t.Errorf("timestamp = %q", updated.MainCategoryTimestamp)
	}
	for i, q := range updated.Questions {
		if q.MainCategory != "History" {
			t.Errorf("question %d mainCategory = %q, want History", i, q.MainCategory)
		}
	}
	if updated.Revision != 3 {
		t.Errorf("revision = %d, want 3", updated.Revision)
	}
}

func TestPropagateCategoryRejections(t *testing.T) {
	doc := SubmissionData{Questions: []Question{{ID: "a", Question: "Q", Answer: "A"}}}

	if _, err := PropagateCategory(doc, FieldMainCategory, "History", "  ", testNow); !IsValidation(err) {
		t.Errorf("blank actor: err = %v, want ValidationError", err)
	}
	if _, err := PropagateCategory(doc, "bogusField", "History", "Alice", testNow); !IsValidation(err) {
		t.Errorf("unknown field: err = %v, want ValidationError", err)
	}
}

func TestMergeQuestionsReviewerStamping(t *testing.T) {
	doc := SubmissionData{Revision: 1}
	edited := []Question{
		{ID: "a", Question: "Q1", Answer: "A1", Rating: 5},
		{ID: "b", Question: "Q2", Answer: "A2", AdminComment: "needs a source"},
		{ID: "c", Question: "Q3", Answer: "A3"},
	}

	updated, err := MergeQuestions(doc, edited, "Bob", testNow)
	if err != nil {
		t.Fatal(err)
	}

	if got := updated.Questions[1]; got.ReviewerName != "Bob" || got.ReviewTimestamp != testNow.Format(time.RFC3339) {
		t.Errorf("commented question not stamped: %+v", got)
	}
	// Ratings-only edits and untouched questions carry no reviewer stamp.
	for _, i := range []int{0, 2} {
		if q := updated.Questions[i]; q.ReviewerName != "" || q.ReviewTimestamp != "" {
			t.Errorf("question %d unexpectedly stamped: %+v", i, q)
		}
	}
	if updated.Revision != 2 {
		t.Errorf("revision = %d, want 2", updated.Revision)
	}
}

func TestMergeQuestionsPreservesPropagatedCategories(t *testing.T) {
	doc := SubmissionData{Questions: []Question{{ID: "a", Question: "Q1", Answer: "A1"}}}
	doc, err := PropagateCategory(doc, FieldMainCategory, "History", "Alice", testNow)
	if err != nil {
		t.Fatal(err)
	}

	// An edit that doesn't touch the category works on whole question
	// objects, so the propagated value rides along.
	edited := make([]Question, len(doc.Questions))
	copy(edited, doc.Questions)
	edited[0].Rating = 4

	updated, err := MergeQuestions(doc, edited, "Bob", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Questions[0].MainCategory != "History" {
		t.Errorf("propagated category lost: %+v", updated.Questions[0])
	}
	if updated.MainCategory != "History" {
		t.Errorf("document category lost: %q", updated.MainCategory)
	}
}

func TestMergeQuestionsRemoval(t *testing.T) {
	doc := SubmissionData{
		Questions: []Question{
			{ID: "a", Question: "Q1", Answer: "A1"},
			{ID: "b", Question: "Q2", Answer: "A2"},
			{ID: "c", Question: "Q3", Answer: "A3"},
		},
	}

	edited := []Question{doc.Questions[0], doc.Questions[2]}
	updated, err := MergeQuestions(doc, edited, "Bob", testNow)
	if err != nil {
		t.Fatal(err)
	}

	if len(updated.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(updated.Questions))
	}
	for _, q := range updated.Questions {
		if q.ID == "b" {
			t.Error("removed question still present")
		}
	}
}

func TestMergeQuestionsRejections(t *testing.T) {
	doc := SubmissionData{}

	if _, err := MergeQuestions(doc, []Question{{ID: "a", Question: "Q", Answer: "A"}}, "", testNow); !IsValidation(err) {
		t.Errorf("blank actor: err = %v, want ValidationError", err)
	}
	if _, err := MergeQuestions(doc, []Question{{ID: "a", Question: "Q", Answer: "  "}}, "Bob", testNow); !IsValidation(err) {
		t.Errorf("missing answer: err = %v, want ValidationError", err)
	}

	var ve *ValidationError
	_, err := MergeQuestions(doc, nil, "", testNow)
	if !errors.As(err, &ve) {
		t.Fatalf("err = %T, want *ValidationError", err)
	}
	if ve.Field != "reviewer_name" {
		t.Errorf("field = %q, want reviewer_name", ve.Field)
	}
}

func TestSetOverallComment(t *testing.T) {
	doc := SubmissionData{Revision: 5}

	updated, err := SetOverallComment(doc, "great overall", "Alice", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if updated.OverallComment != "great overall" || updated.OverallCommentBy != "Alice" {
		t.Errorf("comment = %q by %q", updated.OverallComment, updated.OverallCommentBy)
	}
	if updated.Revision != 6 {
		t.Errorf("revision = %d, want 6", updated.Revision)
	}

	if _, err := SetOverallComment(doc, "x", "", testNow); !IsValidation(err) {
		t.Errorf("blank actor: err = %v, want ValidationError", err)
	}
}

func TestUnreviewedCounts(t *testing.T) {
	docs := []SubmissionData{
		{
			// One rated, one commented (with reviewer), one untouched.
			Questions: []Question{
				{ID: "a", Question: "Q1", Answer: "A1", Rating: 4},
				{ID: "b", Question: "Q2", Answer: "A2", AdminComment: "ok", ReviewerName: "Bob"},
				{ID: "c", Question: "Q3", Answer: "A3"},
			},
		},
		{
			// Fully reviewed.
			Questions: []Question{
				{ID: "d", Question: "Q4", Answer: "A4", Rating: 2},
			},
		},
		{
			// Reviewer attribution alone counts as reviewed.
			Questions: []Question{
				{ID: "e", Question: "Q5", Answer: "A5", ReviewerName: "Alice"},
				{ID: "f", Question: "Q6", Answer: "A6"},
			},
		},
	}

	submissions, questions := UnreviewedCounts(docs)

	if submissions != 2 {
		t.Errorf("unreviewed submissions = %d, want 2", submissions)
	}
	if questions != 2 {
		t.Errorf("unreviewed questions = %d, want 2", questions)
	}
}

func TestLegacyArrayRoundTrip(t *testing.T) {
	raw := json.RawMessage(`[{"question":"Q1","answer":"A1"}]`)

	doc := Normalize(raw)
	doc.Questions, _ = EnsureQuestionIDs(doc.Questions)
	doc, err := PropagateCategory(doc, FieldSubcategory1, "Geo", "Carol", testNow)
	if err != nil {
		t.Fatal(err)
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if encoded[0] == '[' {
		t.Fatal("write-back kept the bare-array shape")
	}

	refetched := Normalize(encoded)
	if refetched.Subcategory1 != "Geo" || refetched.Subcategory1By != "Carol" {
		t.Errorf("document subcategory1 = %q by %q", refetched.Subcategory1, refetched.Subcategory1By)
	}
	if len(refetched.Questions) != 1 || refetched.Questions[0].Subcategory1 != "Geo" {
		t.Errorf("question subcategory1 not propagated: %+v", refetched.Questions)
	}
	if refetched.Questions[0].ID == "" {
		t.Error("generated id did not survive the round trip")
	}
}

func TestSetSubmitterLocation(t *testing.T) {
	doc := SubmissionData{SubmitterLocation: "Unknown", Revision: 1}

	updated := SetSubmitterLocation(doc, "Norway", testNow)
	if updated.SubmitterLocation != "Norway" {
		t.Errorf("submitterLocation = %q", updated.SubmitterLocation)
	}
	if updated.LocationUpdatedAt != testNow.Format(time.RFC3339) {
		t.Errorf("locationUpdatedAt = %q", updated.LocationUpdatedAt)
	}
	if updated.Revision != 2 {
		t.Errorf("revision = %d, want 2", updated.Revision)
	}
}
