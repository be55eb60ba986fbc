package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in    string
		want  Type
		valid bool
	}{
		{"like", TypeLike, true},
		{"dislike", TypeDislike, true},
		{"none", TypeNone, true},
		{"", TypeNone, true},
		{"LIKE", Type("LIKE"), false},
		{"love", Type("love"), false},
	}

	for _, tt := range tests {
		got, ok := ParseType(tt.in)
		assert.Equal(t, tt.valid, ok, "input %q", tt.in)
		if tt.valid {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}

func TestResolveTransitions(t *testing.T) {
	tests := []struct {
		name    string
		current Type
		desired Type
		want    Transition
	}{
		{"none to like", TypeNone, TypeLike, Transition{Op: OpCreate, LikeDelta: 1}},
		{"none to dislike", TypeNone, TypeDislike, Transition{Op: OpCreate, DislikeDelta: 1}},
		{"like to dislike", TypeLike, TypeDislike, Transition{Op: OpUpdate, LikeDelta: -1, DislikeDelta: 1}},
		{"dislike to like", TypeDislike, TypeLike, Transition{Op: OpUpdate, LikeDelta: 1, DislikeDelta: -1}},
		{"like to none", TypeLike, TypeNone, Transition{Op: OpDelete, LikeDelta: -1}},
		{"dislike to none", TypeDislike, TypeNone, Transition{Op: OpDelete, DislikeDelta: -1}},
		{"like self-transition", TypeLike, TypeLike, Transition{Op: OpNone}},
		{"dislike self-transition", TypeDislike, TypeDislike, Transition{Op: OpNone}},
		{"none self-transition", TypeNone, TypeNone, Transition{Op: OpNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.current, tt.desired)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.current != tt.desired, got.Changed())
		})
	}
}

func TestResolveIsIdempotentPerState(t *testing.T) {
	// Applying the same desired type twice yields no second change.
	first := Resolve(TypeNone, TypeLike)
	assert.True(t, first.Changed())
	second := Resolve(TypeLike, TypeLike)
	assert.False(t, second.Changed())
	assert.Zero(t, second.LikeDelta)
	assert.Zero(t, second.DislikeDelta)
}
