package extract

import "github.com/gotak/addrdb/pkg/geo"

// Place is a searchable address/location record. ID is zero until the
// store assigns one during the bulk load.
type Place struct {
	ID          int64    `json:"id"`
	OSMID       int64    `json:"osm_id"`
	OSMType     geo.Kind `json:"osm_type"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Type        string   `json:"type"`
	Street      string   `json:"street"`
	Housenumber string   `json:"housenumber"`
	City        string   `json:"city"`
	Postcode    string   `json:"postcode"`
	State       string   `json:"state"`
	Country     string   `json:"country"`
}

// POI is a categorized point-of-interest record. Name may be empty;
// Category is always one of the fixed category set.
type POI struct {
	ID           int64    `json:"id"`
	OSMID        int64    `json:"osm_id"`
	OSMType      geo.Kind `json:"osm_type"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
	Website      string   `json:"website"`
	OpeningHours string   `json:"opening_hours"`
}
