package allowlist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zenorapm/zenora/internal/allowlist"
)

func TestList_IsAdmin(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		email   string
		want    bool
	}{
		{
			name:    "member",
			entries: []string{"zenoramgmt@gmail.com"},
			email:   "zenoramgmt@gmail.com",
			want:    true,
		},
		{
			name:    "non-member",
			entries: []string{"zenoramgmt@gmail.com"},
			email:   "tenant@example.com",
			want:    false,
		},
		{
			name:    "differently cased login",
			entries: []string{"zenoramgmt@gmail.com"},
			email:   "ZenoraMgmt@Gmail.com",
			want:    true,
		},
		{
			name:    "differently cased entry",
			entries: []string{"Admin@Zenora.com"},
			email:   "admin@zenora.com",
			want:    true,
		},
		{
			name:    "surrounding whitespace",
			entries: []string{"zenoramgmt@gmail.com"},
			email:   " zenoramgmt@gmail.com ",
			want:    true,
		},
		{
			name:    "empty list",
			entries: nil,
			email:   "zenoramgmt@gmail.com",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := allowlist.New(tt.entries...)
			assert.Equal(t, tt.want, l.IsAdmin(tt.email))
		})
	}
}

func TestNew_SkipsEmptyEntries(t *testing.T) {
	l := allowlist.New("", "  ", "admin@zenora.com")
	assert.Equal(t, 1, l.Len())
}
