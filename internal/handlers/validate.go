package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation limits for account and content fields.
const (
	minPasswordLen = 8
	maxNameLen     = 100
	maxTitleLen    = 300
	maxSummaryLen  = 1_000
	maxBodyLen     = 100_000
	maxTagLen      = 50
	maxTags        = 10
	maxBioLen      = 2_000
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// validateSignup checks registration inputs and returns the first error found.
func validateSignup(email, password, name string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required."
	}
	if !emailPattern.MatchString(email) {
		return "Email address is not valid."
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 100 characters)."
	}
	return ""
}

// validatePost checks blog-post inputs and returns the first error found.
func validatePost(title, body string, tags []string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if strings.TrimSpace(body) == "" {
		return "Body is required."
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Body is too long (max 100,000 characters)."
	}
	if len(tags) > maxTags {
		return "Too many tags (max 10)."
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return "Tags must not be empty."
		}
		if utf8.RuneCountInString(tag) > maxTagLen {
			return "Tag is too long (max 50 characters)."
		}
	}
	return ""
}

// validateSummary checks the optional post summary.
func validateSummary(summary string) string {
	if utf8.RuneCountInString(summary) > maxSummaryLen {
		return "Summary is too long (max 1,000 characters)."
	}
	return ""
}

// validateProfile checks member-profile inputs and returns the first error found.
func validateProfile(username, mobile, bio string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return "Username is required."
	}
	if utf8.RuneCountInString(username) > maxNameLen {
		return "Username is too long (max 100 characters)."
	}
	if mobile != "" && !phonePattern.MatchString(mobile) {
		return "Mobile number is not valid."
	}
	if utf8.RuneCountInString(bio) > maxBioLen {
		return "Bio is too long (max 2,000 characters)."
	}
	return ""
}
