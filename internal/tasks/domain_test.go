package tasks

import (
	"testing"
	"time"
)

func TestStatusColor(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{StatusCompleted, "#2ecc71"},
		{StatusInProgress, "#f39c12"},
		{StatusTodo, "#95a5a6"},
		{"garbage", "#95a5a6"},
	}
	for _, tc := range cases {
		if got := StatusColor(tc.status); got != tc.want {
			t.Errorf("StatusColor(%q) = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusTodo, StatusInProgress, StatusCompleted} {
		if !ValidStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if ValidStatus("done") {
		t.Error("'done' should not be a valid status")
	}
}

func TestDueBucket(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	day := func(offset int) *time.Time {
		d := now.AddDate(0, 0, offset)
		return &d
	}

	cases := []struct {
		name string
		due  *time.Time
		want string
	}{
		{"no due date", nil, BucketNone},
		{"yesterday", day(-1), BucketOverdue},
		{"last week", day(-7), BucketOverdue},
		{"today", day(0), BucketDueToday},
		{"tomorrow", day(1), BucketDueSoon},
		{"three days out", day(3), BucketDueSoon},
		{"four days out", day(4), BucketLater},
		{"next month", day(30), BucketLater},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DueBucket(tc.due, now); got != tc.want {
				t.Errorf("DueBucket(%v) = %q, want %q", tc.due, got, tc.want)
			}
		})
	}
}

func TestDueBucketIgnoresTimeOfDay(t *testing.T) {
	// due later today but at an earlier clock time is still due today,
	// not overdue
	now := time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC)
	due := time.Date(2024, 3, 15, 1, 0, 0, 0, time.UTC)

	if got := DueBucket(&due, now); got != BucketDueToday {
		t.Errorf("DueBucket = %q, want %q", got, BucketDueToday)
	}
}
