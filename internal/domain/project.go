package domain

import (
	"math"
	"slices"
	"time"
)

type CheckpointStatus string

const (
	CheckpointStatusCompleted  CheckpointStatus = "completed"
	CheckpointStatusInProgress CheckpointStatus = "in-progress"
	CheckpointStatusPending    CheckpointStatus = "pending"
)

func (s CheckpointStatus) Valid() bool {
	switch s {
	case CheckpointStatusCompleted, CheckpointStatusInProgress, CheckpointStatusPending:
		return true
	}
	return false
}

type Subtask struct {
	ID        string
	Title     string
	Completed bool
	DueDate   time.Time
}

type Comment struct {
	ID     string
	Author string
	Date   time.Time
	Text   string
}

type Checkpoint struct {
	ID          string
	Name        string
	Status      CheckpointStatus
	Description string
	StartDate   time.Time
	EndDate     time.Time
	// 0-100
	Progress int
	Subtasks []Subtask
	Comments []Comment
}

type Project struct {
	ID            string
	Title         string
	Client        string
	Progress      int
	Checkpoints   []Checkpoint
	StartDate     time.Time
	EndDate       time.Time
	Budget        string
	DaysRemaining int
}

// Static project attributes that do not come from the task tracker
type ProjectDetails struct {
	ID     string
	Title  string
	Client string
	Budget string
}

// NewProject aggregates the checkpoints into a project.
//
// Checkpoints are sorted by start date. Checkpoints missing a start date keep
// their index, and the dated ones are sorted around them.
func NewProject(details ProjectDetails, checkpoints []Checkpoint, now time.Time) Project {
	sorted := slices.Clone(checkpoints)
	sortByStartDate(sorted)

	startDate := StartOfDay(now)
	endDate := time.Time{}
	if len(sorted) > 0 {
		if first := sorted[0].StartDate; !first.IsZero() {
			startDate = first
		}
		endDate = sorted[len(sorted)-1].EndDate
	}

	if sorted == nil {
		sorted = []Checkpoint{}
	}

	return Project{
		ID:            details.ID,
		Title:         details.Title,
		Client:        details.Client,
		Budget:        details.Budget,
		Checkpoints:   sorted,
		Progress:      AverageProgress(sorted),
		StartDate:     startDate,
		EndDate:       endDate,
		DaysRemaining: DaysRemaining(endDate, now),
	}
}

func sortByStartDate(checkpoints []Checkpoint) {
	indexes := make([]int, 0, len(checkpoints))
	dated := make([]Checkpoint, 0, len(checkpoints))
	for i, checkpoint := range checkpoints {
		if checkpoint.StartDate.IsZero() {
			continue
		}
		indexes = append(indexes, i)
		dated = append(dated, checkpoint)
	}

	slices.SortStableFunc(dated, func(a, b Checkpoint) int {
		return a.StartDate.Compare(b.StartDate)
	})

	for i, index := range indexes {
		checkpoints[index] = dated[i]
	}
}

func AverageProgress(checkpoints []Checkpoint) int {
	if len(checkpoints) == 0 {
		return 0
	}

	total := 0
	for _, checkpoint := range checkpoints {
		total += checkpoint.Progress
	}
	return int(math.Round(float64(total) / float64(len(checkpoints))))
}

// Percentage of done out of total, rounded. 0 when total is 0.
func Percentage(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DaysRemaining counts whole days from the start of now's day until the start
// of end's day, in now's location. Returns 0 when end is missing or not in the future.
func DaysRemaining(end time.Time, now time.Time) int {
	if end.IsZero() {
		return 0
	}

	today := StartOfDay(now)
	endDay := StartOfDay(end.In(now.Location()))

	days := int(math.Ceil(endDay.Sub(today).Hours() / 24))
	return max(days, 0)
}

func CountCompleted(checkpoints []Checkpoint) int {
	count := 0
	for _, checkpoint := range checkpoints {
		if checkpoint.Status == CheckpointStatusCompleted {
			count++
		}
	}
	return count
}

// Find the checkpoint with the given ID
func (p Project) Checkpoint(id string) (Checkpoint, bool) {
	index := slices.IndexFunc(p.Checkpoints, func(c Checkpoint) bool {
		return c.ID == id
	})
	if index == -1 {
		return Checkpoint{}, false
	}
	return p.Checkpoints[index], true
}
