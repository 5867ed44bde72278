package build

import (
	"testing"

	"github.com/gotak/addrdb/pkg/extract"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSummarize(t *testing.T) {
	places := []extract.Place{
		{Type: "cafe"}, {Type: "cafe"}, {Type: "city"},
		{Type: "address"}, {Type: "address"}, {Type: "address"},
	}
	pois := []extract.POI{
		{Category: "BANK"}, {Category: "PHARMACY"}, {Category: "BANK"},
	}

	s := Summarize(places, pois)

	assert.Equal(t, []GroupCount{
		{Name: "address", Count: 3},
		{Name: "cafe", Count: 2},
		{Name: "city", Count: 1},
	}, s.PlaceTypes)

	assert.Equal(t, []GroupCount{
		{Name: "BANK", Count: 2},
		{Name: "PHARMACY", Count: 1},
	}, s.Categories)
}

func TestSummarizeTopN(t *testing.T) {
	s := Summarize([]extract.Place{{Type: "a"}, {Type: "b"}}, nil)
	assert.Len(t, s.TopPlaceTypes(1), 1)
	assert.Len(t, s.TopPlaceTypes(10), 2, "top-n larger than the group count is clamped")
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil)
	assert.Empty(t, s.PlaceTypes)
	assert.Empty(t, s.Categories)

	// reporting zero groups must not panic
	s.Log(zap.NewNop(), 10)
}

func TestSummarizeTiebreakIsDeterministic(t *testing.T) {
	for i := 0; i < 20; i++ {
		s := Summarize([]extract.Place{{Type: "b"}, {Type: "a"}, {Type: "c"}}, nil)
		assert.Equal(t, []GroupCount{
			{Name: "a", Count: 1}, {Name: "b", Count: 1}, {Name: "c", Count: 1},
		}, s.PlaceTypes)
	}
}
