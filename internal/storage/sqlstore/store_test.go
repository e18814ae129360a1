package sqlstore

import "testing"

func TestRebindDollar(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "no placeholders", query: "SELECT 1", want: "SELECT 1"},
		{name: "sequential", query: "SELECT * FROM t WHERE a = ? AND b = ?", want: "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{name: "quoted question mark", query: "SELECT '?' FROM t WHERE a = ?", want: "SELECT '?' FROM t WHERE a = $1"},
		{
			name:  "case literals",
			query: "ORDER BY CASE m.timing WHEN 'morning' THEN 1 END LIMIT ? OFFSET ?",
			want:  "ORDER BY CASE m.timing WHEN 'morning' THEN 1 END LIMIT $1 OFFSET $2",
		},
		{name: "ten or more", query: "?,?,?,?,?,?,?,?,?,?,?", want: "$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RebindDollar(tt.query); got != tt.want {
				t.Errorf("RebindDollar() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Locale != "en" || s.Timezone != "Local" || s.NotificationsEnabled {
		t.Errorf("DefaultSettings() = %+v", s)
	}
	if s.ReminderMorning == "" || s.ReminderBedtime == "" {
		t.Error("reminder times should have defaults")
	}
}
