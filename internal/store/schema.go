package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableLLMRequestEvents = "llm_request_events"
	tableQuizResultEvents = "quiz_result_events"
	tableKVEntries        = "kv_entries"
)

// textSize forces a TEXT column for bodies that can exceed varchar limits.
const textSize = 2147483647

var (
	llmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeString},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: textSize, Default: ""},
	}
	llmRequestEventsTable = &schema.Table{
		Name:       tableLLMRequestEvents,
		Columns:    llmRequestEventsColumns,
		PrimaryKey: []*schema.Column{llmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmRequestEventsColumns[5]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{llmRequestEventsColumns[9]}},
		},
	}

	quizResultEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeString},
		{Name: "user_name", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString, Default: ""},
		{Name: "score", Type: field.TypeInt},
		{Name: "total_questions", Type: field.TypeInt},
		{Name: "correct_answers", Type: field.TypeInt},
		{Name: "timed_out", Type: field.TypeBool, Default: false},
		{Name: "answers", Type: field.TypeString, Size: textSize},
		{Name: "completed_at", Type: field.TypeString},
	}
	quizResultEventsTable = &schema.Table{
		Name:       tableQuizResultEvents,
		Columns:    quizResultEventsColumns,
		PrimaryKey: []*schema.Column{quizResultEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "quizresultevent_user_name", Columns: []*schema.Column{quizResultEventsColumns[3]}},
		},
	}

	kvEntriesColumns = []*schema.Column{
		{Name: "entry_key", Type: field.TypeString},
		{Name: "entry_value", Type: field.TypeString, Size: textSize},
		{Name: "updated_at", Type: field.TypeString},
	}
	kvEntriesTable = &schema.Table{
		Name:       tableKVEntries,
		Columns:    kvEntriesColumns,
		PrimaryKey: []*schema.Column{kvEntriesColumns[0]},
	}

	tables = []*schema.Table{
		llmRequestEventsTable,
		quizResultEventsTable,
		kvEntriesTable,
	}
)
