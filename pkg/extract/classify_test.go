package extract

import (
	"testing"

	"github.com/gotak/addrdb/pkg/geo"

	"github.com/stretchr/testify/assert"
)

func TestPlaceType(t *testing.T) {
	c := NewClassifier(DefaultCategories())

	cases := []struct {
		name string
		tags geo.Tags
		want string
		ok   bool
	}{
		{
			name: "settlement value verbatim",
			tags: geo.Tags{"place": "city"},
			want: "city", ok: true,
		},
		{
			name: "hamlet verbatim",
			tags: geo.Tags{"place": "hamlet"},
			want: "hamlet", ok: true,
		},
		{
			name: "settlement beats amenity and shop",
			tags: geo.Tags{"place": "town", "amenity": "cafe", "shop": "bakery"},
			want: "town", ok: true,
		},
		{
			name: "non-settlement place value falls through to amenity",
			tags: geo.Tags{"place": "island", "amenity": "cafe"},
			want: "cafe", ok: true,
		},
		{
			name: "amenity beats shop",
			tags: geo.Tags{"amenity": "restaurant", "shop": "bakery"},
			want: "restaurant", ok: true,
		},
		{
			name: "shop gets prefixed",
			tags: geo.Tags{"shop": "bakery"},
			want: "shop_bakery", ok: true,
		},
		{
			name: "tourism verbatim",
			tags: geo.Tags{"tourism": "hotel"},
			want: "hotel", ok: true,
		},
		{
			name: "building placeholder yes",
			tags: geo.Tags{"building": "yes", "addr:street": "Main St", "addr:housenumber": "10"},
			want: "building", ok: true,
		},
		{
			name: "building kind gets prefixed",
			tags: geo.Tags{"building": "house", "addr:street": "Main St", "addr:housenumber": "10"},
			want: "building_house", ok: true,
		},
		{
			name: "full address without building tag",
			tags: geo.Tags{"addr:street": "Main St", "addr:housenumber": "10"},
			want: "address", ok: true,
		},
		{
			name: "street without housenumber is not an address",
			tags: geo.Tags{"addr:street": "Main St"},
			want: "", ok: false,
		},
		{
			name: "leisure after address rule",
			tags: geo.Tags{"leisure": "park"},
			want: "park", ok: true,
		},
		{
			name: "office gets prefixed",
			tags: geo.Tags{"office": "lawyer"},
			want: "office_lawyer", ok: true,
		},
		{
			name: "aeroway verbatim",
			tags: geo.Tags{"aeroway": "aerodrome"},
			want: "aerodrome", ok: true,
		},
		{
			name: "railway verbatim",
			tags: geo.Tags{"railway": "station"},
			want: "station", ok: true,
		},
		{
			name: "named landuse",
			tags: geo.Tags{"name": "Oak Cemetery", "landuse": "cemetery"},
			want: "cemetery", ok: true,
		},
		{
			name: "unnamed landuse does not classify",
			tags: geo.Tags{"landuse": "cemetery"},
			want: "", ok: false,
		},
		{
			name: "empty amenity value is no tag",
			tags: geo.Tags{"amenity": "", "shop": "bakery"},
			want: "shop_bakery", ok: true,
		},
		{
			name: "nothing matches",
			tags: geo.Tags{"highway": "residential"},
			want: "", ok: false,
		},
		{
			name: "empty mapping",
			tags: geo.Tags{},
			want: "", ok: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := c.PlaceType(tc.tags)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCategory(t *testing.T) {
	c := NewClassifier(DefaultCategories())

	t.Run("pure function of tags alone", func(t *testing.T) {
		got, ok := c.Category(geo.Tags{"amenity": "pharmacy"})
		assert.True(t, ok)
		assert.Equal(t, "PHARMACY", got)

		got, ok = c.Category(geo.Tags{"amenity": "pharmacy", "name": "Boots", "shop": "chemist"})
		assert.True(t, ok)
		assert.Equal(t, "PHARMACY", got)
	})

	t.Run("value must match exactly", func(t *testing.T) {
		_, ok := c.Category(geo.Tags{"amenity": "pharmacies"})
		assert.False(t, ok)
	})

	t.Run("no match is not an error", func(t *testing.T) {
		_, ok := c.Category(geo.Tags{"highway": "residential"})
		assert.False(t, ok)
	})

	t.Run("tourism hotel maps to HOTEL", func(t *testing.T) {
		got, ok := c.Category(geo.Tags{"tourism": "hotel"})
		assert.True(t, ok)
		assert.Equal(t, "HOTEL", got)
	})
}

func TestClassifierWithFixtureTable(t *testing.T) {
	table := NewCategoryTable([]CategoryMapping{
		{"COFFEE", "amenity", "cafe"},
	})
	c := NewClassifier(table)

	got, ok := c.Category(geo.Tags{"amenity": "cafe"})
	assert.True(t, ok)
	assert.Equal(t, "COFFEE", got)

	_, ok = c.Category(geo.Tags{"amenity": "pharmacy"})
	assert.False(t, ok, "fixture table must fully replace the default set")
}
