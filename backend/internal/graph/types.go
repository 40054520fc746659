package graph

import "time"

// ============================================================================
// Ingestion Input Types
// ============================================================================

// AnalysisRecord is the structured payload produced by the upstream
// extraction pipeline. Every optional field has a documented default applied
// by applyDefaults before the write transaction runs.
type AnalysisRecord struct {
	MeetingID           string            `json:"meetingId"`
	TenantID            string            `json:"tenantId,omitempty"`
	MeetingTitle        string            `json:"meetingTitle,omitempty"`
	Summary             string            `json:"summary,omitempty"`
	MeetingDate         string            `json:"meetingDate,omitempty"`
	Sentiment           string            `json:"sentiment,omitempty"`
	ProcessingTimestamp string            `json:"processingTimestamp,omitempty"`
	OriginalFilename    string            `json:"originalFilename,omitempty"`
	Transcript          string            `json:"transcript,omitempty"`
	Topics              []string          `json:"topics,omitempty"`
	MeetingType         string            `json:"meetingType,omitempty"`
	Duration            *int              `json:"duration,omitempty"`
	Metadata            *AnalysisMetadata `json:"metadata,omitempty"`
	ActionItems         []ActionItemInput `json:"actionItems,omitempty"`
	KeyDecisions        []string          `json:"keyDecisions,omitempty"`
	MentionedClients    []string          `json:"mentionedClients,omitempty"`
	MentionedProjects   []string          `json:"mentionedProjects,omitempty"`
	InviteMetadata      *InviteMetadata   `json:"inviteMetadata,omitempty"`
}

// AnalysisMetadata carries extraction-level flags about the meeting
type AnalysisMetadata struct {
	UrgencyLevel     string `json:"urgencyLevel,omitempty"`
	RequiresFollowUp bool   `json:"requiresFollowUp,omitempty"`
}

// ActionItemInput is one extracted task from the analysis
type ActionItemInput struct {
	Task            string   `json:"task"`
	Assignee        string   `json:"assignee,omitempty"`
	DueDate         string   `json:"dueDate,omitempty"`
	Priority        string   `json:"priority,omitempty"`
	Status          string   `json:"status,omitempty"`
	Blockers        []string `json:"blockers,omitempty"`
	EstimatedEffort string   `json:"estimatedEffort,omitempty"`
	AssigneeRole    string   `json:"assigneeRole,omitempty"`
}

// InviteMetadata is calendar/agenda context attached alongside the analysis
type InviteMetadata struct {
	MeetingTitle     string     `json:"meetingTitle,omitempty"`
	MeetingDate      string     `json:"meetingDate,omitempty"`
	MeetingStartTime string     `json:"meetingStartTime,omitempty"`
	MeetingEndTime   string     `json:"meetingEndTime,omitempty"`
	Description      string     `json:"description,omitempty"`
	Attendees        []Attendee `json:"attendees,omitempty"`
}

// Attendee is a canonical {name, email} pair from the meeting invite, used
// as a trusted anchor when resolving free-text assignee mentions.
type Attendee struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Sentinel values used when the extraction leaves a field empty
const (
	UnassignedSentinel = "unassigned"
	UnknownDateValue   = "unknown"
	NoDueDateValue     = "none"
)

// applyDefaults fills every optional field of the analysis with its
// documented default and truncates the transcript. The input is not
// modified; the returned copy is what the write transaction persists.
func applyDefaults(analysis AnalysisRecord, maxTranscriptChars int) AnalysisRecord {
	a := analysis

	if a.MeetingTitle == "" {
		a.MeetingTitle = "Untitled Meeting"
	}
	if a.MeetingDate == "" {
		a.MeetingDate = UnknownDateValue
	}
	if a.Sentiment == "" {
		a.Sentiment = "neutral"
	}
	if a.ProcessingTimestamp == "" {
		a.ProcessingTimestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if a.MeetingType == "" {
		a.MeetingType = "other"
	}
	if a.Topics == nil {
		a.Topics = []string{}
	}
	if a.Metadata == nil {
		a.Metadata = &AnalysisMetadata{}
	} else {
		md := *a.Metadata
		a.Metadata = &md
	}
	if a.Metadata.UrgencyLevel == "" {
		a.Metadata.UrgencyLevel = "normal"
	}
	a.Transcript = truncateRunes(a.Transcript, maxTranscriptChars)

	items := make([]ActionItemInput, len(a.ActionItems))
	for i, item := range a.ActionItems {
		items[i] = applyActionItemDefaults(item)
	}
	a.ActionItems = items

	return a
}

// truncateRunes caps a string at max characters, never splitting a
// multi-byte rune. The byte-length fast path covers the common ASCII case.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}

func applyActionItemDefaults(item ActionItemInput) ActionItemInput {
	if item.Assignee == "" {
		item.Assignee = UnassignedSentinel
	}
	if item.DueDate == "" {
		item.DueDate = NoDueDateValue
	}
	if item.Priority == "" {
		item.Priority = "unspecified"
	}
	if item.Status == "" {
		item.Status = "pending"
	}
	if item.Blockers == nil {
		item.Blockers = []string{}
	}
	if item.EstimatedEffort == "" {
		item.EstimatedEffort = "unknown"
	}
	return item
}

// ============================================================================
// Query Result Types
// ============================================================================

// ActionItemSummary is one action item with its originating meeting context
type ActionItemSummary struct {
	Task         string `json:"task"`
	DueDate      string `json:"dueDate"`
	Priority     string `json:"priority"`
	Status       string `json:"status"`
	MeetingID    string `json:"meetingId"`
	MeetingTitle string `json:"meetingTitle"`
	MeetingDate  string `json:"meetingDate"`
}

// MeetingSummary is the projection returned by meeting-level queries
type MeetingSummary struct {
	MeetingID   string `json:"meetingId"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	MeetingDate string `json:"meetingDate"`
	Sentiment   string `json:"sentiment"`
}

// ClientRelationship aggregates a client's meeting history
type ClientRelationship struct {
	ClientName     string   `json:"clientName"`
	MeetingCount   int64    `json:"meetingCount"`
	RecentMeetings []string `json:"recentMeetings"`
}

// GraphSummary holds per-label node counts for one tenant
type GraphSummary struct {
	Meetings    int64 `json:"meetings"`
	People      int64 `json:"people"`
	Clients     int64 `json:"clients"`
	Projects    int64 `json:"projects"`
	ActionItems int64 `json:"actionItems"`
	Decisions   int64 `json:"decisions"`
}

// BlockedItem is one blocked action item surfaced for triage
type BlockedItem struct {
	Task         string   `json:"task"`
	Assignee     string   `json:"assignee"`
	Blockers     []string `json:"blockers"`
	Priority     string   `json:"priority"`
	MeetingTitle string   `json:"meetingTitle"`
}

// HistoricalMeeting is one past meeting matched by topic, with the
// decisions and action tasks it produced
type HistoricalMeeting struct {
	MeetingTitle string   `json:"meetingTitle"`
	Date         string   `json:"date"`
	Summary      string   `json:"summary"`
	Decisions    []string `json:"decisions"`
	ActionItems  []string `json:"actionItems"`
}

// PersonWorkload is the per-person slice of the team health aggregation
type PersonWorkload struct {
	Person            string `json:"person"`
	TotalTasks        int64  `json:"totalTasks"`
	BlockedTasks      int64  `json:"blockedTasks"`
	CompletedTasks    int64  `json:"completedTasks"`
	HighPriorityTasks int64  `json:"highPriorityTasks"`
}

// Team health status tiers
const (
	HealthStatusHealthy  = "healthy"
	HealthStatusWarning  = "warning"
	HealthStatusCritical = "critical"
)

// TeamHealthReport is the derived classification over the tenant's workload
type TeamHealthReport struct {
	Status         string           `json:"status"`
	TotalTasks     int64            `json:"totalTasks"`
	BlockedTasks   int64            `json:"blockedTasks"`
	CompletedTasks int64            `json:"completedTasks"`
	CompletionRate float64          `json:"completionRate"`
	BlockedRate    float64          `json:"blockedRate"`
	Members        []PersonWorkload `json:"members"`
	Overloaded     []string         `json:"overloaded"`
}
