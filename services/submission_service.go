package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"memory-nest-api/config"
	"memory-nest-api/models"

	"gorm.io/gorm"
)

// SubmissionOverview is the per-submission summary shown on the review
// overview page.
type SubmissionOverview struct {
	ID                int       `json:"id"`
	Username          string    `json:"username"`
	Topic             string    `json:"topic"`
	Description       string    `json:"description"`
	TotalQuestions    int       `json:"total_questions"`
	UnratedQuestions  int       `json:"unrated_questions"`
	CreatedAt         time.Time `json:"created_at"`
	SubmitterLocation string    `json:"submitter_location"`
	OverallComment    string    `json:"overall_comment"`
	MainCategory      string    `json:"main_category"`
	Subcategory1      string    `json:"subcategory1"`
	Subcategory2      string    `json:"subcategory2"`
}

// SubmissionDetail is one submission with its fully normalized document.
type SubmissionDetail struct {
	ID             int            `json:"id"`
	Username       string         `json:"username"`
	Topic          string         `json:"topic"`
	Description    string         `json:"description"`
	CreatedAt      time.Time      `json:"created_at"`
	TotalQuestions int            `json:"total_questions"`
	Data           SubmissionData `json:"data"`
}

// FetchAllSubmissions returns overviews of every submission, newest first.
func FetchAllSubmissions() ([]SubmissionOverview, error) {
	var records []models.Submission
	if err := config.DB.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	overviews := make([]SubmissionOverview, 0, len(records))
	for _, record := range records {
		doc := Normalize(record.Data)

		unrated := 0
		for _, q := range doc.Questions {
			if q.Rating == 0 {
				unrated++
			}
		}

		overviews = append(overviews, SubmissionOverview{
			ID:                record.ID,
			Username:          record.Username,
			Topic:             record.Topic,
			Description:       record.Description,
			TotalQuestions:    len(doc.Questions),
			UnratedQuestions:  unrated,
			CreatedAt:         record.CreatedAt,
			SubmitterLocation: doc.SubmitterLocation,
			OverallComment:    doc.OverallComment,
			MainCategory:      doc.MainCategory,
			Subcategory1:      doc.Subcategory1,
			Subcategory2:      doc.Subcategory2,
		})
	}
	return overviews, nil
}

// FetchSubmissionByID loads one submission and normalizes its document.
// Questions missing an id get one assigned, and the ids are written back so
// the next read sees the same identifiers instead of fresh ones.
func FetchSubmissionByID(id int) (*SubmissionDetail, error) {
	var record models.Submission
	if err := config.DB.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch submission: %w", err)
	}

	doc := Normalize(record.Data)
	expected := doc.Revision
	questions, assigned := EnsureQuestionIDs(doc.Questions)
	doc.Questions = questions

	if assigned {
		persisted := doc
		persisted.Revision++
		if err := writeDocument(record.ID, persisted, expected); err != nil {
			// A concurrent writer beat us to it; the caller still gets a
			// usable document, the ids just stay session-local.
			log.Printf("could not persist generated question ids for submission %d: %v", record.ID, err)
		} else {
			doc = persisted
		}
	}

	return &SubmissionDetail{
		ID:             record.ID,
		Username:       record.Username,
		Topic:          record.Topic,
		Description:    record.Description,
		CreatedAt:      record.CreatedAt,
		TotalQuestions: len(doc.Questions),
		Data:           doc,
	}, nil
}

// CreateSubmission stores a brand-new flashcard set in canonical shape.
func CreateSubmission(username, topic, description string, questions []Question, location string) (*models.Submission, error) {
	doc := SubmissionData{
		Questions:         questions,
		SubmitterLocation: location,
		SubmittedAt:       time.Now().UTC().Format(time.RFC3339),
		Revision:          1,
	}
	doc.Questions, _ = EnsureQuestionIDs(doc.Questions)

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission data: %w", err)
	}

	record := models.Submission{
		Username:    username,
		Topic:       topic,
		Description: description,
		Data:        raw,
		CreatedAt:   time.Now(),
	}
	if err := config.DB.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}
	return &record, nil
}

// SaveOverallComment sets the submission-level admin annotation.
func SaveOverallComment(id int, comment, actor string) error {
	return reconcile(id, func(doc SubmissionData) (SubmissionData, error) {
		return SetOverallComment(doc, comment, actor, time.Now())
	})
}

// SaveCategory propagates a taxonomy value to the submission and all of its
// questions. field must be one of the Field* constants.
func SaveCategory(id int, field, value, actor string) error {
	return reconcile(id, func(doc SubmissionData) (SubmissionData, error) {
		return PropagateCategory(doc, field, value, actor, time.Now())
	})
}

// SaveQuestionChanges merges an admin's edited question list into the stored
// document. Edits, appended questions and removals all go through here.
func SaveQuestionChanges(id int, edited []Question, actor string) error {
	return reconcile(id, func(doc SubmissionData) (SubmissionData, error) {
		return MergeQuestions(doc, edited, actor, time.Now())
	})
}

// DeleteSubmission removes a whole submission record, questions included.
func DeleteSubmission(id int) error {
	result := config.DB.Delete(&models.Submission{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete submission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyLocationByUsername sets the submitter location on every submission
// belonging to a username. The per-record update cycles run concurrently and
// independently; one failure does not roll back the rest.
func ApplyLocationByUsername(username, location string) error {
	var records []models.Submission
	if err := config.DB.Select("id").Where("username = ?", username).Find(&records).Error; err != nil {
		return fmt.Errorf("failed to fetch submissions for %s: %w", username, err)
	}
	if len(records) == 0 {
		return ErrNotFound
	}

	var wg sync.WaitGroup
	errs := make([]error, len(records))
	for i, record := range records {
		wg.Add(1)
		go func(idx, id int) {
			defer wg.Done()
			errs[idx] = reconcileNoActor(id, func(doc SubmissionData) SubmissionData {
				return SetSubmitterLocation(doc, location, time.Now())
			})
		}(i, record.ID)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// DashboardStats holds the admin dashboard numbers.
type DashboardStats struct {
	TotalSubmissions      int `json:"total_submissions"`
	TotalQuestions        int `json:"total_questions"`
	UnreviewedSubmissions int `json:"unreviewed_submissions"`
	UnreviewedQuestions   int `json:"unreviewed_questions"`
}

// FetchDashboardStats computes the totals and the review backlog in a single
// pass over every stored document.
func FetchDashboardStats() (DashboardStats, error) {
	var records []models.Submission
	if err := config.DB.Order("created_at DESC").Find(&records).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("failed to fetch submissions for stats: %w", err)
	}

	stats := DashboardStats{TotalSubmissions: len(records)}
	docs := make([]SubmissionData, 0, len(records))
	for _, record := range records {
		doc := Normalize(record.Data)
		stats.TotalQuestions += len(doc.Questions)
		docs = append(docs, doc)
	}
	stats.UnreviewedSubmissions, stats.UnreviewedQuestions = UnreviewedCounts(docs)
	return stats, nil
}

// reconcile runs one fetch-transform-write cycle against a submission's
// document. The write is conditional on the revision read here, so a
// concurrent edit surfaces as ErrConflict instead of being silently lost.
func reconcile(id int, transform func(SubmissionData) (SubmissionData, error)) error {
	var record models.Submission
	if err := config.DB.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch submission: %w", err)
	}

	doc := Normalize(record.Data)
	expected := doc.Revision

	updated, err := transform(doc)
	if err != nil {
		return err
	}
	return writeDocument(id, updated, expected)
}

func reconcileNoActor(id int, transform func(SubmissionData) SubmissionData) error {
	return reconcile(id, func(doc SubmissionData) (SubmissionData, error) {
		return transform(doc), nil
	})
}

// writeDocument persists the canonical document if the stored revision still
// matches expected. Legacy documents (bare arrays or objects without a
// revision) match an expected revision of zero.
func writeDocument(id int, doc SubmissionData, expected int64) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode submission data: %w", err)
	}

	tx := config.DB.Model(&models.Submission{}).Where("id = ?", id)
	if expected > 0 {
		tx = tx.Where("(data ->> 'revision')::bigint = ?", expected)
	} else {
		tx = tx.Where("data ->> 'revision' IS NULL")
	}

	result := tx.Update("data", json.RawMessage(raw))
	if result.Error != nil {
		return fmt.Errorf("failed to update submission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := config.DB.Model(&models.Submission{}).Where("id = ?", id).Count(&count).Error; err == nil && count == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}
