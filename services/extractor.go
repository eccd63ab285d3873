package services

import (
	"oikotie-analytics/logger"
	"oikotie-analytics/models"
)

// Extractor turns raw API cards into Listings and assembles them into a
// Dataset.
type Extractor struct {
	log *logger.Log
}

// NewExtractor creates an Extractor with the given logger.
func NewExtractor(log *logger.Log) *Extractor {
	return &Extractor{log: log}
}

// BuildDataset extracts every card in input order. Extraction is
// all-or-nothing: the first bad card fails the whole build so that no run is
// computed over a partial dataset. ObjectsCount is snapshotted here and never
// recomputed.
func (e *Extractor) BuildDataset(cards []models.RawCard) (*models.Dataset, error) {
	listings := make([]*models.Listing, 0, len(cards))
	for i, card := range cards {
		l, err := e.Extract(i, card)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}

	e.log.WithComponent("extractor").Infof("extracted %d listings", len(listings))
	return &models.Dataset{Listings: listings, ObjectsCount: len(listings)}, nil
}

// Extract maps one card onto the canonical listing schema: url, rooms,
// roomConfiguration, price, published, size, then address, district, city and
// buildYear from the building block, then latitude and longitude from the
// coordinate block. Every field except buildYear is required.
func (e *Extractor) Extract(row int, card models.RawCard) (*models.Listing, error) {
	l := &models.Listing{}

	if card.URL == nil {
		return nil, &MissingFieldError{Row: row, Field: "url"}
	}
	l.URL = *card.URL

	if card.Rooms == nil {
		return nil, &MissingFieldError{Row: row, Field: "rooms"}
	}
	l.Rooms = *card.Rooms

	if card.RoomConfiguration == nil {
		return nil, &MissingFieldError{Row: row, Field: "roomConfiguration"}
	}
	l.RoomConfiguration = *card.RoomConfiguration

	if card.Price == nil {
		return nil, &MissingFieldError{Row: row, Field: "price"}
	}
	l.RawPrice = *card.Price

	if card.Published == nil {
		return nil, &MissingFieldError{Row: row, Field: "published"}
	}
	l.Published = *card.Published

	if card.Size == nil {
		return nil, &MissingFieldError{Row: row, Field: "size"}
	}
	l.Size = *card.Size

	b := card.BuildingData
	if b == nil {
		return nil, &MissingFieldError{Row: row, Field: "buildingData"}
	}
	if b.Address == nil {
		return nil, &MissingFieldError{Row: row, Field: "buildingData.address"}
	}
	l.Address = *b.Address
	if b.District == nil {
		return nil, &MissingFieldError{Row: row, Field: "buildingData.district"}
	}
	l.District = *b.District
	if b.City == nil {
		return nil, &MissingFieldError{Row: row, Field: "buildingData.city"}
	}
	l.City = *b.City
	l.BuildYear = b.Year // nullable

	c := card.Coordinates
	if c == nil {
		return nil, &MissingFieldError{Row: row, Field: "coordinates"}
	}
	if c.Latitude == nil {
		return nil, &MissingFieldError{Row: row, Field: "coordinates.latitude"}
	}
	l.Latitude = *c.Latitude
	if c.Longitude == nil {
		return nil, &MissingFieldError{Row: row, Field: "coordinates.longitude"}
	}
	l.Longitude = *c.Longitude

	return l, nil
}
