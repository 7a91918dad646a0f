package alert

import (
	"fmt"
	"strings"

	"safetywatch/internal/model"
)

// summarizeClasses deduplicates violation labels, keeping first-seen order.
func summarizeClasses(violations []model.Detection) string {
	seen := make(map[string]struct{}, len(violations))
	var classes []string
	for _, v := range violations {
		if _, ok := seen[v.Label]; ok {
			continue
		}
		seen[v.Label] = struct{}{}
		classes = append(classes, v.Label)
	}
	return strings.Join(classes, ", ")
}

// BuildCaption formats the alert message sent with a violation event.
func BuildCaption(event *model.ViolationEvent) string {
	return fmt.Sprintf(
		"⚠️ *SAFETY VIOLATION DETECTED* ⚠️\n\n"+
			"🕒 Time: %s\n"+
			"📍 Type: %s\n"+
			"🔢 Count: %d violation(s)\n\n"+
			"⚡ Immediate action required!",
		event.Timestamp.Format("2006-01-02 15:04:05"),
		summarizeClasses(event.Violations),
		len(event.Violations),
	)
}
