package model

import "gorm.io/gorm"

// Region 第一級行政区画（国の直下）
type Region struct {
	ID int64 `json:"id" gorm:"primaryKey;autoIncrement:false"`
	PlaceFields
	AltNames []AlternativeName `json:"alt_names,omitempty" gorm:"many2many:region_alt_names"`

	NameStd   string       `json:"name_std" gorm:"size:200;index;not null"`
	Code      string       `json:"code" gorm:"size:200;index;not null"`
	CountryID int64        `json:"country_id" gorm:"not null;index"`
	Country   *Country     `json:"country,omitempty" gorm:"foreignKey:CountryID"`
	Boundary  MultiPolygon `json:"boundary,omitempty"`
}

func (Region) TableName() string {
	return "regions"
}

func (r *Region) String() string { return r.Name }

func (r *Region) Level() Level { return LevelRegion }

func (r *Region) AlternativeNames() []AlternativeName { return r.AltNames }

func (r *Region) Parent() Place {
	if r.Country == nil {
		return nil
	}
	return r.Country
}

func (r *Region) Hierarchy() []Place { return Hierarchy(r) }

func (r *Region) AbsoluteURL() string { return AbsoluteURL(r) }

// FullCode "国コード.地域コード"
func (r *Region) FullCode() string { return fullCode(r) }

func (r *Region) code() string { return r.Code }

func (r *Region) Normalize() {
	r.PlaceFields.normalize()
	r.NameStd = NormalizeText(r.NameStd)
	r.Code = NormalizeText(r.Code)
}

func (r *Region) BeforeSave(tx *gorm.DB) error {
	r.Normalize()
	return nil
}

func (r *Region) AfterFind(tx *gorm.DB) error {
	r.Normalize()
	return nil
}
