package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueVariants(t *testing.T) {
	assert.True(t, Absent().IsAbsent())
	assert.Nil(t, Absent().Strings())
	assert.Equal(t, "", Absent().Flat())

	s := String("depot")
	assert.False(t, s.IsAbsent())
	assert.Equal(t, []string{"depot"}, s.Strings())
	assert.Equal(t, "depot", s.Flat())

	l := List("a", "b")
	assert.False(t, l.IsAbsent())
	assert.Equal(t, []string{"a", "b"}, l.Strings())
	assert.Equal(t, "a;b", l.Flat())
}

func TestListDropsNils(t *testing.T) {
	l := List("a", nil, "b")
	assert.Equal(t, []string{"a", "b"}, l.Strings())

	// A list of only nils collapses to absent.
	assert.True(t, List(nil, nil).IsAbsent())
	assert.True(t, List().IsAbsent())
}

func TestStringfCoercion(t *testing.T) {
	assert.Equal(t, "42", Stringf(42).Flat())
	assert.Equal(t, "3.5", Stringf(3.5).Flat())
	assert.Equal(t, "true", Stringf(true).Flat())
	assert.True(t, Stringf(nil).IsAbsent())
}

func TestScalar(t *testing.T) {
	v, ok := String("industrial").Scalar()
	assert.True(t, ok)
	assert.Equal(t, "industrial", v)

	_, ok = List("a", "b").Scalar()
	assert.False(t, ok)
	_, ok = Absent().Scalar()
	assert.False(t, ok)
}

func TestFeatureKeyOrder(t *testing.T) {
	f := New(nil)
	f.Set("landuse", String("industrial"))
	f.Set("name", String("Acme"))
	f.Set("shop", String("no"))

	assert.Equal(t, []string{"landuse", "name", "shop"}, f.Keys())

	// Updating an existing key keeps its position.
	f.Set("name", String("Beta"))
	assert.Equal(t, []string{"landuse", "name", "shop"}, f.Keys())
	assert.Equal(t, "Beta", f.Get("name").Flat())
}

func TestFeatureHas(t *testing.T) {
	f := New(nil)
	f.Set("name", String("Acme"))
	f.Set("notes", Absent())

	assert.True(t, f.Has("name"))
	assert.False(t, f.Has("notes"))
	assert.False(t, f.Has("never_set"))
	assert.True(t, f.Get("never_set").IsAbsent())
}
