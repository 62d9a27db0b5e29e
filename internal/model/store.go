package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"fooddelivery/pkg/geo"
)

// Store store model
type Store struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Category    *string   `gorm:"type:varchar(50);index" json:"category,omitempty"`
	Phone       *string   `gorm:"type:varchar(20)" json:"phone,omitempty"`
	RegionType  string    `gorm:"type:varchar(10);not null;default:circle" json:"region_type"`
	CenterLat   float64   `gorm:"type:double;not null;default:0" json:"center_lat"`
	CenterLng   float64   `gorm:"type:double;not null;default:0" json:"center_lng"`
	RadiusKm    float64   `gorm:"type:double;not null;default:0" json:"radius_km"`
	RegionRing  PointList `gorm:"type:json" json:"region_ring,omitempty"`
	Status      int8      `gorm:"type:tinyint;not null;default:1;index" json:"status"`
	CreatedAt   time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName set name
func (Store) TableName() string {
	return "stores"
}

// StoreStatus store status const
const (
	StoreStatusOpen   = 1
	StoreStatusClosed = 2
)

// IsOpen check if store accepts orders
func (s *Store) IsOpen() bool {
	return s.Status == StoreStatusOpen
}

// ServiceRegion builds the geographic coverage region of the store
func (s *Store) ServiceRegion() geo.Region {
	switch s.RegionType {
	case geo.RegionTypePolygon:
		return geo.Region{
			Type: geo.RegionTypePolygon,
			Ring: []geo.Point(s.RegionRing),
		}
	default:
		return geo.Region{
			Type:     s.RegionType,
			Center:   geo.Point{Lat: s.CenterLat, Lng: s.CenterLng},
			RadiusKm: s.RadiusKm,
		}
	}
}

// PointList custom json column type for a polygon ring
type PointList []geo.Point

// Value implement driver.Valuer interface
func (p PointList) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implement sql.Scanner interface
func (p *PointList) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into PointList", value)
	}

	return json.Unmarshal(bytes, p)
}
