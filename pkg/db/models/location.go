package models

// Location resolves a zip code prefix to its city and state.
type Location struct {
	ZipCode string `gorm:"column:zip_code;index;not null"`
	City    string `gorm:"column:city;not null"`
	State   string `gorm:"column:state;not null"`
}

func (Location) TableName() string {
	return "locations"
}
