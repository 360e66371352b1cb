package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStationSet_AddAndContains(t *testing.T) {
	set := NewStationSet()
	set.Add("USW00094728")
	set.Add("USW00094728")
	set.Add("USC00305801")

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("USW00094728"))
	assert.True(t, set.Contains("USC00305801"))
	assert.False(t, set.Contains("CA006158355"))
}

func TestStationSet_ZeroValue(t *testing.T) {
	var set StationSet
	assert.Equal(t, 0, set.Len())

	set.Add("USW00094728")
	assert.Equal(t, 1, set.Len())
	assert.True(t, set.Contains("USW00094728"))
}

func TestStationSet_NilReceiver(t *testing.T) {
	var set *StationSet

	assert.Equal(t, 0, set.Len())
	assert.False(t, set.Contains("USW00094728"))
	assert.Empty(t, set.Codes())
	assert.Equal(t, 0, set.Intersection(NewStationSet("USW00094728")).Len())
}

func TestStationSet_Codes(t *testing.T) {
	set := NewStationSet("USW003", "USW001", "USW002", "USW001")

	assert.Equal(t, []StationCode{"USW001", "USW002", "USW003"}, set.Codes())
}

func TestStationSet_Intersection(t *testing.T) {
	tests := []struct {
		name string
		a    *StationSet
		b    *StationSet
		want []StationCode
	}{
		{
			name: "one shared station",
			a:    NewStationSet("USW001", "USW002"),
			b:    NewStationSet("USW002", "USW003"),
			want: []StationCode{"USW002"},
		},
		{
			name: "disjoint sets",
			a:    NewStationSet("USW001"),
			b:    NewStationSet("USW002"),
			want: []StationCode{},
		},
		{
			name: "identical sets",
			a:    NewStationSet("USW001", "USW002"),
			b:    NewStationSet("USW002", "USW001"),
			want: []StationCode{"USW001", "USW002"},
		},
		{
			name: "subset",
			a:    NewStationSet("USW001", "USW002", "USW003", "USW004"),
			b:    NewStationSet("USW003"),
			want: []StationCode{"USW003"},
		},
		{
			name: "empty side",
			a:    NewStationSet(),
			b:    NewStationSet("USW001"),
			want: []StationCode{},
		},
		{
			name: "nil side",
			a:    NewStationSet("USW001"),
			b:    nil,
			want: []StationCode{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Intersection(tt.b)
			assert.Equal(t, tt.want, got.Codes())

			// Symmetric and bounded by the smaller input
			assert.Equal(t, got.Codes(), tt.b.Intersection(tt.a).Codes())
			assert.LessOrEqual(t, got.Len(), min(tt.a.Len(), tt.b.Len()))
		})
	}
}

func TestStationSet_IntersectionDoesNotModifyInputs(t *testing.T) {
	a := NewStationSet("USW001", "USW002")
	b := NewStationSet("USW002", "USW003")

	common := a.Intersection(b)
	common.Add("USW999")

	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 2, b.Len())
	assert.False(t, a.Contains("USW999"))
}
