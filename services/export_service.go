package services

import (
	"fmt"
	"strconv"

	"memory-nest-api/config"
	"memory-nest-api/models"
)

// ExportHeaders is the column order for the admin CSV export.
var ExportHeaders = []string{
	"SubmissionID",
	"SubmissionTitle",
	"Username",
	"SubmissionDate",
	"Location",
	"MainCategory",
	"Subcategory1",
	"Subcategory2",
	"QuestionNumber",
	"Question",
	"Answer",
	"ReadMore",
	"Rating",
	"AdminComment",
	"ReviewerName",
	"ReviewTimestamp",
}

// QuestionsForExport flattens every question across all submissions into CSV
// records, carrying the submission metadata on each row. Per-question
// category values win over the submission-level ones when both exist.
func QuestionsForExport() ([]map[string]string, error) {
	var records []models.Submission
	if err := config.DB.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch submissions for export: %w", err)
	}

	rows := make([]map[string]string, 0)
	for _, record := range records {
		doc := Normalize(record.Data)

		submittedOn := ""
		if !record.CreatedAt.IsZero() {
			submittedOn = record.CreatedAt.Format("2006-01-02")
		}

		for i, q := range doc.Questions {
			rating := ""
			if q.Rating != 0 {
				rating = strconv.Itoa(q.Rating)
			}

			rows = append(rows, map[string]string{
				"SubmissionID":    strconv.Itoa(record.ID),
				"SubmissionTitle": record.Topic,
				"Username":        record.Username,
				"SubmissionDate":  submittedOn,
				"Location":        doc.SubmitterLocation,
				"MainCategory":    firstNonEmpty(q.MainCategory, doc.MainCategory),
				"Subcategory1":    firstNonEmpty(q.Subcategory1, doc.Subcategory1),
				"Subcategory2":    firstNonEmpty(q.Subcategory2, doc.Subcategory2),
				"QuestionNumber":  strconv.Itoa(i + 1),
				"Question":        q.Question,
				"Answer":          q.Answer,
				"ReadMore":        q.ReadMore,
				"Rating":          rating,
				"AdminComment":    q.AdminComment,
				"ReviewerName":    q.ReviewerName,
				"ReviewTimestamp": q.ReviewTimestamp,
			})
		}
	}
	return rows, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
