package clickup

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Amund211/clientboard/internal/domain"
)

type Space struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Folder struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Lists []List `json:"lists"`
}

type List struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

type TaskStatus struct {
	Status string `json:"status"`
	Type   string `json:"type"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type ChecklistItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Resolved bool   `json:"resolved"`
}

type Checklist struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Items []ChecklistItem `json:"items"`
}

type TaskComment struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	CommentText string    `json:"comment_text"`
	User        *User     `json:"user"`
	Date        Timestamp `json:"date"`
}

// Body of the comment. Task payloads use `text`, the comment endpoints use `comment_text`.
func (c TaskComment) Body() string {
	if c.Text != "" {
		return c.Text
	}
	return c.CommentText
}

type Task struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      TaskStatus    `json:"status"`
	DateCreated Timestamp     `json:"date_created"`
	StartDate   Timestamp     `json:"start_date"`
	DueDate     Timestamp     `json:"due_date"`
	Checklists  []Checklist   `json:"checklists"`
	Comments    []TaskComment `json:"comments"`
}

type PostedComment struct {
	ID   string
	Date time.Time
}

// Timestamp is a unix timestamp sent as a string or a number, in milliseconds
// or seconds. Null and empty values decode to the zero time.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}

	t.Time = domain.TimeFromUnixTimestamp(value)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(strconv.FormatInt(t.UnixMilli(), 10))
}
