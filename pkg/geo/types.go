package geo

// Kind is the geometry kind of a raw OSM entity.
type Kind string

const (
	KindNode Kind = "node"
	KindWay  Kind = "way"
)

// Tags is the free-form key/value tag mapping carried by an OSM entity.
// Keys are case-sensitive and unique. A key that is present with an empty
// value is not the same as an absent key; Lookup preserves the difference.
type Tags map[string]string

// Lookup returns the raw tag value and whether the key is present at all.
func (t Tags) Lookup(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}

// Get returns the tag value only when the key is present with a non-empty
// value. Classification and extraction rules treat an empty value as no tag.
func (t Tags) Get(key string) (string, bool) {
	v, ok := t[key]
	return v, ok && v != ""
}

// First returns the first non-empty value among keys, or "".
func (t Tags) First(keys ...string) string {
	for _, k := range keys {
		if v, ok := t.Get(k); ok {
			return v
		}
	}
	return ""
}

// Entity is one raw map entity with a resolved point coordinate. For ways
// the coordinate is the arithmetic mean over all constituent vertices that
// resolved to a valid location.
type Entity struct {
	SourceID int64
	Kind     Kind
	Lat      float64
	Lon      float64
	Tags     Tags
}

func validLocation(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
