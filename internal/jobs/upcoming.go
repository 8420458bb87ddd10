package jobs

import (
	"sort"
	"time"

	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
	"github.com/joseph-ayodele/tebligat-tracker/internal/utils"
)

// DefaultHorizon is the look-ahead window in days.
const DefaultHorizon = 7

type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// UpcomingJob is an active job due within the horizon.
type UpcomingJob struct {
	Job      *entity.Job
	DaysLeft int
	Urgency  Urgency
}

// Agenda is the result of Upcoming.
type Agenda struct {
	Jobs    []UpcomingJob
	Overdue int
}

// Upcoming returns active jobs scheduled between today and today+horizon,
// soonest first, and counts active jobs already past their date.
func Upcoming(list []*entity.Job, today time.Time, horizon int) Agenda {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	today = utils.Day(today)
	var a Agenda
	for _, j := range list {
		if !j.Status.Active() {
			continue
		}
		left := DaysBetween(today, j.ScheduledDate)
		switch {
		case left < 0:
			a.Overdue++
		case left <= horizon:
			a.Jobs = append(a.Jobs, UpcomingJob{Job: j, DaysLeft: left, Urgency: urgency(left)})
		}
	}
	sort.SliceStable(a.Jobs, func(i, k int) bool {
		return a.Jobs[i].DaysLeft < a.Jobs[k].DaysLeft
	})
	return a
}

// DaysBetween counts calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(utils.Day(b).Sub(utils.Day(a)).Hours() / 24)
}

func urgency(daysLeft int) Urgency {
	switch {
	case daysLeft <= 0:
		return UrgencyCritical
	case daysLeft == 1:
		return UrgencyHigh
	case daysLeft <= 3:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}
