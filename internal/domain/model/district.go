package model

import "gorm.io/gorm"

// District 都市内の地区
type District struct {
	ID int64 `json:"id" gorm:"primaryKey;autoIncrement:false"`
	PlaceFields
	AltNames []AlternativeName `json:"alt_names,omitempty" gorm:"many2many:district_alt_names"`

	NameStd    string       `json:"name_std" gorm:"size:200;index;not null"`
	Location   Point        `json:"location" gorm:"not null"`
	Population int64        `json:"population" gorm:"not null"`
	CityID     int64        `json:"city_id" gorm:"not null;index"`
	City       *City        `json:"city,omitempty" gorm:"foreignKey:CityID"`
	Boundary   MultiPolygon `json:"boundary,omitempty"`
}

func (District) TableName() string {
	return "districts"
}

func (d *District) String() string { return d.Name }

func (d *District) Level() Level { return LevelDistrict }

func (d *District) AlternativeNames() []AlternativeName { return d.AltNames }

func (d *District) Parent() Place {
	if d.City == nil {
		return nil
	}
	return d.City
}

func (d *District) Hierarchy() []Place { return Hierarchy(d) }

func (d *District) AbsoluteURL() string { return AbsoluteURL(d) }

func (d *District) Normalize() {
	d.PlaceFields.normalize()
	d.NameStd = NormalizeText(d.NameStd)
}

func (d *District) BeforeSave(tx *gorm.DB) error {
	d.Normalize()
	return nil
}

func (d *District) AfterFind(tx *gorm.DB) error {
	d.Normalize()
	return nil
}
