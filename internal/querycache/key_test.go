package querycache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyEqual(t *testing.T) {
	assert := require.New(t)

	assert.True(Key{"conversations", "list"}.Equal(Key{"conversations", "list"}))
	assert.False(Key{"conversations"}.Equal(Key{"conversations", "list"}))
	assert.False(Key{"conversations", "list"}.Equal(Key{"conversations", "detail"}))
	assert.True(Key{}.Equal(Key{}))
}

func TestKeyHasPrefix(t *testing.T) {
	tests := []struct {
		name   string
		key    Key
		prefix Key
		want   bool
	}{
		{
			name:   "broad prefix matches narrower key",
			key:    Key{"conversations", "list", "search=demo"},
			prefix: Key{"conversations"},
			want:   true,
		},
		{
			name:   "key is a prefix of itself",
			key:    Key{"conversations", "list"},
			prefix: Key{"conversations", "list"},
			want:   true,
		},
		{
			name:   "longer prefix never matches",
			key:    Key{"conversations"},
			prefix: Key{"conversations", "list"},
			want:   false,
		},
		{
			name:   "segments match whole, not by string prefix",
			key:    Key{"departments", "list"},
			prefix: Key{"dep"},
			want:   false,
		},
		{
			name:   "sibling hierarchies do not match",
			key:    Key{"company", "c1", "projects"},
			prefix: Key{"company", "c2"},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.key.HasPrefix(tt.prefix))
		})
	}
}

func TestKeyConstructorsAreDeterministic(t *testing.T) {
	assert := require.New(t)

	assert.True(ConversationKey("abc").Equal(ConversationKey("abc")))
	assert.False(ConversationKey("abc").Equal(ConversationKey("def")))

	assert.True(CompanyRolesKey("c1", "d1").HasPrefix(CompanyDepartmentsKey("c1")))
	assert.True(CompanyKnowledgeKey("c1").HasPrefix(CompanyKey("c1")))
	assert.False(CompanyKnowledgeKey("c1").HasPrefix(CompanyKey("c2")))
}

func TestListAndPagesKeysShareInvalidationPrefix(t *testing.T) {
	assert := require.New(t)

	filter := Filter{"search": "demo"}
	list := ConversationListKey(filter)
	pages := ConversationPagesKey(filter)

	prefix := Key{"conversations", "list"}
	assert.True(list.HasPrefix(prefix))
	assert.True(pages.HasPrefix(prefix))

	// The two variants must never alias each other's entries.
	assert.False(list.Equal(pages))
	assert.NotEqual(list.canonical(), pages.canonical())
}

func TestFilterEncode(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{
			name:   "empty filter",
			filter: Filter{},
			want:   "",
		},
		{
			name:   "fields sorted by name",
			filter: Filter{"search": "demo", "company_id": "c1"},
			want:   "company_id=c1&search=demo",
		},
		{
			name:   "empty values dropped",
			filter: Filter{"search": "", "sort_by": "updated_at"},
			want:   "sort_by=updated_at",
		},
		{
			name:   "all empty collapses to nothing",
			filter: Filter{"search": "", "company_id": ""},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.filter.Encode())
		})
	}
}

func TestFilterEncodeOrderIndependent(t *testing.T) {
	a := Filter{"a": "1", "b": "2", "c": "3"}
	b := Filter{"c": "3", "a": "1", "b": "2"}
	require.Equal(t, a.Encode(), b.Encode())
}
