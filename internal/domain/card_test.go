package domain

import "testing"

func TestScheduledInDays(t *testing.T) {
	testCases := []struct {
		name  string
		card  Card
		want  bool
	}{
		{"review queue", Card{Type: CardTypeReview, Queue: QueueReview}, true},
		{"day learning queue", Card{Type: CardTypeRelearn, Queue: QueueDayLearn}, true},
		{"intraday learning queue", Card{Type: CardTypeLearn, Queue: QueueLearn}, false},
		{"new card", Card{Type: CardTypeNew, Queue: QueueNew}, false},
		{"suspended review card", Card{Type: CardTypeReview, Queue: QueueSuspended}, true},
		{"buried review card", Card{Type: CardTypeReview, Queue: QueueManuallyBuried}, true},
		{"suspended learning card", Card{Type: CardTypeLearn, Queue: QueueSuspended}, false},
		{"preview queue", Card{Type: CardTypeReview, Queue: QueuePreview}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.card.ScheduledInDays(); got != tc.want {
				t.Errorf("ScheduledInDays() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestQueueBuried(t *testing.T) {
	if !QueueManuallyBuried.Buried() || !QueueSiblingBuried.Buried() {
		t.Error("expected both buried queues to report Buried()")
	}
	if QueueSuspended.Buried() {
		t.Error("suspended queue must not report Buried()")
	}
}
