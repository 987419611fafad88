package domain

import "time"

// TaskType categorizes what kind of recording a project holds.
type TaskType string

const (
	TaskTypeMeeting   TaskType = "meeting"
	TaskTypeClass     TaskType = "class"
	TaskTypePodcast   TaskType = "podcast"
	TaskTypeInterview TaskType = "interview"
	TaskTypeOther     TaskType = "other"
)

// Valid reports whether t is one of the known task types.
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeMeeting, TaskTypeClass, TaskTypePodcast, TaskTypeInterview, TaskTypeOther:
		return true
	}
	return false
}

// ProjectStatus tracks the lifecycle of a submission.
type ProjectStatus string

const (
	ProjectStatusProcessing ProjectStatus = "processing"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusError      ProjectStatus = "error"
)

// TranscriptSegment is one attributed, timestamped piece of transcript.
type TranscriptSegment struct {
	Speaker   string `json:"speaker"`
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// Transcription is the structured output of a provider call.
type Transcription struct {
	Title           string              `json:"title"`
	Language        string              `json:"language"`
	Topics          []string            `json:"topics"`
	SummaryShort    string              `json:"summary_short"`
	SummaryDetailed string              `json:"summary_detailed"`
	KeyPoints       []string            `json:"key_points"`
	Transcript      []TranscriptSegment `json:"transcript"`
}

// Project is one submission and its result, kept in the per-user history.
type Project struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Type             TaskType       `json:"type"`
	Status           ProjectStatus  `json:"status"`
	OriginalFileName string         `json:"original_file_name"`
	DurationSeconds  float64        `json:"duration_seconds"`
	CreatedAt        time.Time      `json:"created_at"`
	Data             *Transcription `json:"data,omitempty"`
}
