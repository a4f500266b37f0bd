// utils/validator.go - Input validation
package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// Submission field limits enforced on the public submit form.
const (
	TopicMinLen       = 10
	TopicMaxLen       = 38
	DescriptionMinLen = 25
	DescriptionMaxLen = 110
	MinQuestionRows   = 20
)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

// ValidateTopic checks the study set name length.
func ValidateTopic(topic string) (bool, string) {
	n := len([]rune(topic))
	if n < TopicMinLen || n > TopicMaxLen {
		return false, fmt.Sprintf("Study set name must be between %d and %d characters", TopicMinLen, TopicMaxLen)
	}
	return true, ""
}

// ValidateDescription checks the description length.
func ValidateDescription(description string) (bool, string) {
	n := len([]rune(description))
	if n < DescriptionMinLen || n > DescriptionMaxLen {
		return false, fmt.Sprintf("Description must be between %d and %d characters", DescriptionMinLen, DescriptionMaxLen)
	}
	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
