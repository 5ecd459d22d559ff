package tasks

import "time"

// Task statuses as the UI renders them.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// statusColors are the badge colors the task cards use.
var statusColors = map[string]string{
	StatusCompleted:  "#2ecc71",
	StatusInProgress: "#f39c12",
	StatusTodo:       "#95a5a6",
}

// StatusColor returns the badge color for a status, falling back to the
// todo color for anything unknown.
func StatusColor(status string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return statusColors[StatusTodo]
}

func ValidStatus(status string) bool {
	_, ok := statusColors[status]
	return ok
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Due-date buckets for the my-tasks view.
const (
	BucketOverdue  = "overdue"
	BucketDueToday = "due_today"
	BucketDueSoon  = "due_soon"
	BucketLater    = "later"
	BucketNone     = "none"
)

const dueSoonDays = 3

// DueBucket classifies a due date relative to now. Comparison is by
// calendar day in the due date's location.
func DueBucket(due *time.Time, now time.Time) string {
	if due == nil {
		return BucketNone
	}

	d := startOfDay(*due)
	n := startOfDay(now)

	switch days := int(d.Sub(n).Hours() / 24); {
	case days < 0:
		return BucketOverdue
	case days == 0:
		return BucketDueToday
	case days <= dueSoonDays:
		return BucketDueSoon
	default:
		return BucketLater
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
