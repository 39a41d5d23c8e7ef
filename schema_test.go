package belso_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/belso"
	"github.com/reoring/belso/internal/fixture"
)

func TestNewSchema_DuplicateField(t *testing.T) {
	_, err := belso.NewSchema("S", belso.String("a"), belso.Integer("a"))
	var dup *belso.DuplicateFieldError
	require.True(t, errors.As(err, &dup), "got %v", err)
	assert.Equal(t, "S", dup.Schema)
	assert.Equal(t, "a", dup.Field)
	assert.Equal(t, belso.CodeDuplicateField, dup.Issue().Code)
}

func TestNewSchema_DropsIncompatibleConstraints(t *testing.T) {
	d := belso.NewDiag("test")
	s, err := belso.NewSchemaDiag(d, "S",
		belso.Boolean("flag").WithRange(belso.Between(0, 1)).WithEnum(true),
		belso.String("name").WithMultipleOf(2).WithLength(belso.Count(1, 5)),
		belso.ArrayOf("xs", belso.KindInteger).WithRegex("x").WithItems(belso.CountAtLeast(1)),
	)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())

	flag, _ := s.Field("flag")
	assert.Nil(t, flag.Constraints.Range)
	assert.Equal(t, []any{true}, flag.Constraints.Enum)

	name, _ := s.Field("name")
	assert.Nil(t, name.Constraints.MultipleOf)
	assert.NotNil(t, name.Constraints.LengthRange)

	xs, _ := s.Field("xs")
	assert.Empty(t, xs.Constraints.Regex)
	assert.Equal(t, 1, *xs.Constraints.ItemsRange.Min)
}

func TestNewSchema_InvalidKind(t *testing.T) {
	_, err := belso.NewSchema("S", belso.Scalar("x", belso.Kind(42)))
	assert.Error(t, err)
}

func TestSchema_Accessors(t *testing.T) {
	s := fixture.House()
	assert.Equal(t, "House", s.Name())
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, []string{"address", "rooms", "lights_on"}, s.RequiredNames())

	rooms, ok := s.Field("rooms")
	require.True(t, ok)
	assert.Equal(t, belso.ShapeArray, rooms.Shape())
	assert.Equal(t, belso.KindArray, rooms.EffectiveKind())
	require.True(t, rooms.Items.IsSchema())
	assert.Equal(t, "Room", rooms.Items.Schema.Name())

	owner, _ := s.Field("owner")
	assert.Equal(t, belso.ShapeNested, owner.Shape())
	assert.Equal(t, belso.KindObject, owner.EffectiveKind())

	_, ok = s.Field("nope")
	assert.False(t, ok)

	// Fields returns a copy
	fs := s.Fields()
	fs[0].Name = "changed"
	first, _ := s.Field("address")
	assert.Equal(t, "address", first.Name)
}

func TestField_ModifiersCopyOnWrite(t *testing.T) {
	base := belso.Integer("n")
	opt := base.Optional().WithDefault(3).Describe("d")
	assert.True(t, base.Required)
	assert.Nil(t, base.Default)
	assert.False(t, opt.Required)
	assert.Equal(t, 3, opt.Default)
	assert.Equal(t, "d", opt.Description)
}

func TestFallbackSchema(t *testing.T) {
	s := belso.FallbackSchema()
	assert.Equal(t, belso.FallbackName, s.Name())
	require.Equal(t, 1, s.Len())
	f := s.Fields()[0]
	assert.Equal(t, "text", f.Name)
	assert.Equal(t, belso.KindString, f.Kind)
	assert.True(t, f.Required)
	assert.Equal(t, "Fallback field", f.Description)
	assert.True(t, s.IsFallback())
	assert.False(t, fixture.House().IsFallback())
}

func TestSchema_Equal(t *testing.T) {
	assert.True(t, fixture.House().Equal(fixture.House()))
	assert.False(t, fixture.House().Equal(fixture.House().WithName("Other")))

	a := belso.MustSchema("S", belso.Float("x").Optional().WithDefault(3).WithEnum(1, 2))
	b := belso.MustSchema("S", belso.Float("x").Optional().WithDefault(3.0).WithEnum(1.0, 2.0))
	assert.True(t, a.Equal(b))
}

func TestParseKind(t *testing.T) {
	cases := map[string]belso.Kind{
		"str": belso.KindString, "int": belso.KindInteger, "number": belso.KindFloat,
		"bool": belso.KindBoolean, "list": belso.KindArray, "dict": belso.KindObject, "any": belso.KindAny,
	}
	for name, want := range cases {
		got, ok := belso.ParseKind(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	k, ok := belso.ParseKind("tuple")
	assert.False(t, ok)
	assert.Equal(t, belso.KindString, k)
	assert.Equal(t, "invalid", belso.Kind(99).String())
}

func TestKind_Normalize(t *testing.T) {
	assert.Equal(t, 3, belso.KindInteger.Normalize(3.0))
	assert.Equal(t, 2.5, belso.KindInteger.Normalize(2.5))
	assert.Equal(t, 3.0, belso.KindFloat.Normalize(3))
	assert.Equal(t, "x", belso.KindInteger.Normalize("x"))

	// 2^63 has no fractional part but does not fit an int
	big := math.Exp2(63)
	assert.False(t, belso.IsIntegral(big))
	assert.Equal(t, big, belso.KindInteger.Normalize(big))
	assert.Equal(t, math.MinInt64, belso.KindInteger.Normalize(-big))
}

func TestSupports_Table(t *testing.T) {
	for _, k := range belso.Kinds() {
		assert.True(t, belso.Supports(k, belso.FacetEnum), k.String())
	}
	assert.True(t, belso.Supports(belso.KindFloat, belso.FacetExclusiveRange))
	assert.False(t, belso.Supports(belso.KindString, belso.FacetRange))
	assert.True(t, belso.Supports(belso.KindObject, belso.FacetPropertiesRange))
	assert.False(t, belso.Supports(belso.KindAny, belso.FacetFormat))
}

func TestResult_DoneAndFailed(t *testing.T) {
	d := belso.NewDiag("")
	r := belso.Done(1, d)
	assert.True(t, r.Ok())

	d.Warnf("dropped %s", "x")
	r = belso.Done(1, d)
	assert.Equal(t, belso.Degraded, r.Outcome)
	assert.Equal(t, []string{"dropped x"}, r.Warnings)

	cause := errors.New("boom")
	f := belso.Failed("placeholder", nil, cause)
	assert.True(t, f.IsFallback())
	assert.Equal(t, cause, f.Cause)
	assert.Equal(t, "fallback", f.Outcome.String())
}
