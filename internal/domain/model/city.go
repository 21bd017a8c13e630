package model

import "gorm.io/gorm"

// City 都市
// Kind は geonames の feature code（http://www.geonames.org/export/codes.html）
type City struct {
	ID int64 `json:"id" gorm:"primaryKey;autoIncrement:false"`
	PlaceFields
	AltNames []AlternativeName `json:"alt_names,omitempty" gorm:"many2many:city_alt_names"`

	NameStd     string       `json:"name_std" gorm:"size:200;index;not null"`
	Location    Point        `json:"location" gorm:"not null"`
	Population  int64        `json:"population" gorm:"not null"`
	RegionID    *int64       `json:"region_id,omitempty" gorm:"index"`
	Region      *Region      `json:"region,omitempty" gorm:"foreignKey:RegionID"`
	SubregionID *int64       `json:"subregion_id,omitempty" gorm:"index"`
	Subregion   *Subregion   `json:"subregion,omitempty" gorm:"foreignKey:SubregionID"`
	CountryID   int64        `json:"country_id" gorm:"not null;index"`
	Country     *Country     `json:"country,omitempty" gorm:"foreignKey:CountryID"`
	Elevation   *int         `json:"elevation,omitempty"`
	Kind        string       `json:"kind" gorm:"size:10;not null"`
	Timezone    string       `json:"timezone" gorm:"size:40;not null"`
	Boundary    MultiPolygon `json:"boundary,omitempty"`
}

func (City) TableName() string {
	return "cities"
}

func (c *City) String() string { return c.Name }

func (c *City) Level() Level { return LevelCity }

func (c *City) AlternativeNames() []AlternativeName { return c.AltNames }

// Parent 地域があれば地域、なければ国
func (c *City) Parent() Place {
	if c.Region != nil {
		return c.Region
	}
	if c.Country != nil {
		return c.Country
	}
	return nil
}

func (c *City) Hierarchy() []Place { return Hierarchy(c) }

func (c *City) AbsoluteURL() string { return AbsoluteURL(c) }

func (c *City) Normalize() {
	c.PlaceFields.normalize()
	c.NameStd = NormalizeText(c.NameStd)
	c.Kind = NormalizeText(c.Kind)
	c.Timezone = NormalizeText(c.Timezone)
}

func (c *City) BeforeSave(tx *gorm.DB) error {
	c.Normalize()
	return nil
}

func (c *City) AfterFind(tx *gorm.DB) error {
	c.Normalize()
	return nil
}
