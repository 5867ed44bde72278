package extract

import (
	"strings"

	"github.com/gotak/addrdb/pkg/geo"

	"go.uber.org/zap"
)

const progressInterval = 50000

// Extractor turns raw entities into Place and POI records for one region.
// The two extraction rules are evaluated independently against the same tag
// mapping, so a single entity may yield a place, a POI, both, or neither.
// Records accumulate in memory for the whole region so the store can be
// bulk-loaded in one pass.
type Extractor struct {
	classifier *Classifier
	region     string
	log        *zap.Logger

	places []Place
	pois   []POI
}

func NewExtractor(classifier *Classifier, region string, log *zap.Logger) *Extractor {
	return &Extractor{
		classifier: classifier,
		region:     region,
		log:        log,
	}
}

// Consume processes one entity. It never fails: a non-match simply emits
// nothing and the run continues.
func (e *Extractor) Consume(ent geo.Entity) {
	if place, ok := e.extractPlace(ent); ok {
		e.places = append(e.places, place)
		if len(e.places)%progressInterval == 0 {
			e.log.Info("extracting places", zap.Int("processed", len(e.places)))
		}
	}
	if poi, ok := e.extractPOI(ent); ok {
		e.pois = append(e.pois, poi)
	}
}

func (e *Extractor) extractPlace(ent geo.Entity) (Place, bool) {
	name, hasName := ent.Tags.Get("name")
	street, hasStreet := ent.Tags.Get("addr:street")
	if !hasName && !hasStreet {
		return Place{}, false
	}

	placeType, ok := e.classifier.PlaceType(ent.Tags)
	if !ok {
		return Place{}, false
	}

	housenumber := ent.Tags.First("addr:housenumber")
	shortName := name
	if shortName == "" {
		shortName = strings.TrimSpace(housenumber + " " + street)
	}

	state := ent.Tags.First("addr:state")
	if state == "" {
		state = e.region
	}

	return Place{
		OSMID:       ent.SourceID,
		OSMType:     ent.Kind,
		Lat:         ent.Lat,
		Lon:         ent.Lon,
		Name:        shortName,
		DisplayName: DisplayName(ent.Tags, name, e.region),
		Type:        placeType,
		Street:      street,
		Housenumber: housenumber,
		City:        ent.Tags.First("addr:city"),
		Postcode:    ent.Tags.First("addr:postcode"),
		State:       state,
		Country:     ent.Tags.First("addr:country"),
	}, true
}

func (e *Extractor) extractPOI(ent geo.Entity) (POI, bool) {
	category, ok := e.classifier.Category(ent.Tags)
	if !ok {
		return POI{}, false
	}

	addrParts := []string{}
	for _, key := range []string{"addr:housenumber", "addr:street", "addr:city", "addr:postcode"} {
		if v, ok := ent.Tags.Get(key); ok {
			addrParts = append(addrParts, v)
		}
	}

	return POI{
		OSMID:        ent.SourceID,
		OSMType:      ent.Kind,
		Lat:          ent.Lat,
		Lon:          ent.Lon,
		Name:         ent.Tags.First("name"),
		Category:     category,
		Address:      strings.Join(addrParts, ", "),
		Phone:        ent.Tags.First("phone", "contact:phone"),
		Website:      ent.Tags.First("website", "contact:website"),
		OpeningHours: ent.Tags.First("opening_hours"),
	}, true
}

// Places returns every place extracted so far.
func (e *Extractor) Places() []Place {
	return e.places
}

// POIs returns every POI extracted so far.
func (e *Extractor) POIs() []POI {
	return e.pois
}

// Counts reports the running place and POI totals, for progress reporting
// only.
func (e *Extractor) Counts() (places, pois int) {
	return len(e.places), len(e.pois)
}
