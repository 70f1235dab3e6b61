package logging

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// RedactEmail masks an email address for safe logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := []rune(parts[0])
	if len(name) > 2 {
		return string(name[:2]) + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactingFormatter masks email addresses in the message and string
// fields before handing the entry to Next.
type RedactingFormatter struct {
	Next logrus.Formatter
}

func (f *RedactingFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	redacted := *entry
	redacted.Message = emailRegex.ReplaceAllStringFunc(entry.Message, RedactEmail)
	redacted.Data = make(logrus.Fields, len(entry.Data))
	for k, v := range entry.Data {
		if s, ok := v.(string); ok {
			v = emailRegex.ReplaceAllStringFunc(s, RedactEmail)
		}
		redacted.Data[k] = v
	}
	return f.Next.Format(&redacted)
}
