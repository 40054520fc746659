package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// collectMeetingSummaries drains a result whose projection matches the
// MeetingSummary shape. Cursor errors are left for the caller to check via
// result.Err.
func collectMeetingSummaries(ctx context.Context, result neo4j.ResultWithContext) []MeetingSummary {
	meetings := []MeetingSummary{}
	for result.Next(ctx) {
		record := result.Record()
		meetings = append(meetings, MeetingSummary{
			MeetingID:   getStringFromRecord(record, "meetingId"),
			Title:       getStringFromRecord(record, "title"),
			Summary:     getStringFromRecord(record, "summary"),
			MeetingDate: getStringFromRecord(record, "meetingDate"),
			Sentiment:   getStringFromRecord(record, "sentiment"),
		})
	}
	return meetings
}

// ============================================================================
// Record Helper Functions
// ============================================================================

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getInt64FromRecord(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return i
	}
	if i, ok := val.(int); ok {
		return int64(i)
	}
	return 0
}

func getStringSliceFromRecord(record *neo4j.Record, key string) []string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return []string{}
	}
	if slice, ok := val.([]interface{}); ok {
		result := make([]string, 0, len(slice))
		for _, v := range slice {
			if str, ok := v.(string); ok && str != "" {
				result = append(result, str)
			}
		}
		return result
	}
	return []string{}
}
