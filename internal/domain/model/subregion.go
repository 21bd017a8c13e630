package model

import "gorm.io/gorm"

// Subregion 第二級行政区画
type Subregion struct {
	ID int64 `json:"id" gorm:"primaryKey;autoIncrement:false"`
	PlaceFields
	AltNames []AlternativeName `json:"alt_names,omitempty" gorm:"many2many:subregion_alt_names"`

	NameStd  string       `json:"name_std" gorm:"size:200;index;not null"`
	Code     string       `json:"code" gorm:"size:200;index;not null"`
	RegionID int64        `json:"region_id" gorm:"not null;index"`
	Region   *Region      `json:"region,omitempty" gorm:"foreignKey:RegionID"`
	Boundary MultiPolygon `json:"boundary,omitempty"`
}

func (Subregion) TableName() string {
	return "subregions"
}

func (s *Subregion) String() string { return s.Name }

func (s *Subregion) Level() Level { return LevelSubregion }

func (s *Subregion) AlternativeNames() []AlternativeName { return s.AltNames }

func (s *Subregion) Parent() Place {
	if s.Region == nil {
		return nil
	}
	return s.Region
}

func (s *Subregion) Hierarchy() []Place { return Hierarchy(s) }

func (s *Subregion) AbsoluteURL() string { return AbsoluteURL(s) }

// FullCode "国コード.地域コード.下位地域コード"
func (s *Subregion) FullCode() string { return fullCode(s) }

func (s *Subregion) code() string { return s.Code }

func (s *Subregion) Normalize() {
	s.PlaceFields.normalize()
	s.NameStd = NormalizeText(s.NameStd)
	s.Code = NormalizeText(s.Code)
}

func (s *Subregion) BeforeSave(tx *gorm.DB) error {
	s.Normalize()
	return nil
}

func (s *Subregion) AfterFind(tx *gorm.DB) error {
	s.Normalize()
	return nil
}
