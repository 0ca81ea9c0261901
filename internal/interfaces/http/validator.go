package http

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxPhoneLength = 32

var phonePattern = regexp.MustCompile(`^\+?[0-9]{5,20}$`)

// ValidPhone checks a contact phone taken from a path parameter.
func ValidPhone(s string) bool {
	if s == "" || len(s) > MaxPhoneLength {
		return false
	}
	return phonePattern.MatchString(s)
}

// ValidID checks a row id taken from a path parameter.
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// SanitizeString removes null bytes and invalid UTF-8.
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return s
}

// splitCSV splits a comma separated query value, dropping blanks.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
