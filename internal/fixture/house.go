// Package fixture builds the sample schemas shared by the package tests.
package fixture

import "github.com/reoring/belso"

// Light is the innermost record of the House tree.
func Light() *belso.Schema {
	return belso.MustSchema("Light",
		belso.Integer("id").Describe("Light identifier"),
		belso.String("temperature").Describe("Colour temperature").WithEnum("warm", "neutral", "cool"),
		belso.Float("brightness").Describe("Brightness percentage").Optional().WithRange(belso.Between(0, 100)),
	)
}

// Room holds an array of lights.
func Room() *belso.Schema {
	return belso.MustSchema("Room",
		belso.String("name").Describe("Room name"),
		belso.Float("area").Describe("Floor area in square meters").Optional(),
		belso.ArrayOfSchema("lights", Light()).Describe("Lights in the room"),
	)
}

// Owner is a nested object of House.
func Owner() *belso.Schema {
	return belso.MustSchema("Owner",
		belso.String("name").Describe("Full name"),
		belso.Integer("age").Describe("Age in years").Optional(),
	)
}

// House is three levels deep: House -> rooms[] Room -> lights[] Light. It uses
// only constraints every dialect carries (enum, range, items_range).
func House() *belso.Schema {
	return belso.MustSchema("House",
		belso.String("address").Describe("Street address"),
		belso.ArrayOfSchema("rooms", Room()).Describe("Rooms of the house").WithItems(belso.Count(1, 20)),
		belso.Nested("owner", Owner()).Describe("Owner of the house").Optional(),
		belso.ArrayOf("tags", belso.KindString).Describe("Free-form tags").Optional(),
		belso.Boolean("lights_on").Describe("Whether any light is on"),
	)
}

// Rich exercises every facet of the constraint vocabulary and defaults on
// optional fields. Lossy dialects degrade it.
func Rich() *belso.Schema {
	return belso.MustSchema("Rich",
		belso.String("email").Describe("Contact").WithLength(belso.Count(3, 254)).WithRegex(`^[^@]+@[^@]+$`).WithFormat("email"),
		belso.Integer("count").Optional().WithDefault(1).WithExclusiveRange(belso.Between(0, 1000)).WithMultipleOf(1),
		belso.Float("ratio").Optional().WithRange(belso.AtLeast(0)),
		belso.Dict("meta").Optional().WithProperties(belso.CountAtMost(10)),
		belso.List("blob").Optional(),
		belso.Any("extra").Optional(),
		belso.Boolean("active").Optional().WithDefault(true),
	)
}

// LightsOn is the one-field schema {lights_on: boolean, required}.
func LightsOn() *belso.Schema {
	return belso.MustSchema("Switch", belso.Boolean("lights_on"))
}
