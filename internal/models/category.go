package models

// Category is global reference data: a kind of metered energy with its unit
// label (kWh, m³, ...). Categories are never deleted while consumptions or
// alerts reference them.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Unit string `gorm:"size:50;not null" json:"unit"`
}
