package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyTriggerSQL(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{topic: "schedules", want: "notify_schedules_changed('schedules')"},
		{topic: "board_events", want: "notify_schedules_changed('board_events')"},
		{topic: "it's", want: "notify_schedules_changed('it''s')"},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			stmts := notifyTriggerSQL(tt.topic)
			require.Len(t, stmts, 2)
			assert.Contains(t, stmts[0], "DROP TRIGGER IF EXISTS schedules_changed")
			assert.Contains(t, stmts[1], "CREATE TRIGGER schedules_changed")
			assert.Contains(t, stmts[1], tt.want)
		})
	}
}

func TestMigrationsNotifyTriggerArgument(t *testing.T) {
	data, err := fs.ReadFile(migrations, "migrations/00002_notify_topic_argument.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "pg_notify(COALESCE(TG_ARGV[0], 'schedules'), TG_OP)")
}
