package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	r := NewRegistry()
	r.Register(newDropAlias())
	r.Register(newSwapper())
	r.Register(newLimited("postgres"))
	return r
}

func ruleIDs(rules []Rule) []string {
	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID()
	}
	return ids
}

func TestRegistryLookup(t *testing.T) {
	r := testRegistry()
	assert.Equal(t, 3, r.Count())
	assert.Equal(t, []string{"TS01", "TS02", "TS04"}, ruleIDs(r.All()))

	got, ok := r.Get("ts01")
	require.True(t, ok)
	assert.Equal(t, "TS01", got.ID())

	got, ok = r.Get("TEST.DROP_ALIAS")
	require.True(t, ok)
	assert.Equal(t, "TS01", got.ID())

	_, ok = r.Get("XX99")
	assert.False(t, ok)

	assert.Len(t, r.ByGroup("testing"), 3)
	assert.Equal(t, []string{"TS01", "TS02"}, ruleIDs(r.ByDialect("ansi")))
	assert.Equal(t, []string{"TS01", "TS02", "TS04"}, ruleIDs(r.ByDialect("postgres")))
}

func TestRegistrySelect(t *testing.T) {
	r := testRegistry()

	tests := []struct {
		name      string
		selectors []string
		want      []string
		wantErr   bool
	}{
		{"none means all", nil, []string{"TS01", "TS02", "TS04"}, false},
		{"all keyword", []string{"all"}, []string{"TS01", "TS02", "TS04"}, false},
		{"by id keeps catalog order", []string{"TS04", "ts01"}, []string{"TS01", "TS04"}, false},
		{"by name", []string{"test.TS02"}, []string{"TS02"}, false},
		{"by group", []string{"testing"}, []string{"TS01", "TS02", "TS04"}, false},
		{"duplicates", []string{"TS01", "TS01", " "}, []string{"TS01"}, false},
		{"unknown", []string{"TS01", "nope"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := r.Select(tt.selectors...)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownRule)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ruleIDs(set.Rules()))
		})
	}
}

func TestRuleSet(t *testing.T) {
	set := NewRuleSet(newDropAlias(), newSwapper(), newLimited())
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"TS01", "TS04"}, ruleIDs(set.Without("test.TS02").Rules()))

	info := set.Info()
	require.Len(t, info, 3)
	assert.Equal(t, "TS01", info[0].ID)
	assert.True(t, info[0].Fixable)
	assert.False(t, info[1].Fixable)
	assert.Equal(t, BuildDocURL("TS01"), info[0].DocumentationURL)
}

func TestGetRuleInfo(t *testing.T) {
	info := GetRuleInfo(newLimited("postgres", "duckdb"))
	assert.Equal(t, "TS04", info.ID)
	assert.Equal(t, "test.TS04", info.Name)
	assert.Equal(t, SeverityInfo, info.DefaultSeverity)
	assert.Equal(t, []string{"postgres", "duckdb"}, info.Dialects)
}
